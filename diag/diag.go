// Package diag collects compiler diagnostics.
//
// Every diagnostic has a stable [ID] that selects its severity and message
// format from a static table, so callers report by ID and never build
// message text themselves. An [Engine] is append-only: the error count it
// keeps is the sole measure of whether a compilation succeeded.
package diag

import (
	"fmt"

	"github.com/ardnew/tlc/source"
)

// Severity ranks a diagnostic.
type Severity uint8

const (
	Error Severity = iota
	Warning
	Note
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	default:
		return fmt.Sprintf("Severity(%d)", uint8(s))
	}
}

// ID identifies a diagnostic kind.
type ID uint16

const (
	ErrExpected ID = iota
	ErrUnterminatedComment
	ErrUnterminatedString
	ErrHexDigitInDecimal
	ErrIntegerLiteralOverflow
	ErrNotYetImplemented
	ErrModuleIdentifierNotEqual
	NoteModuleIdentifierDeclaration
	ErrProcedureIdentifierNotEqual
	NoteProcedureIdentifierDeclaration
	ErrSymbolDeclared
	NotePreviousDeclaration
	ErrDeclRequiresType
	ErrReturnTypeRequiresType
	ErrUndeclaredName
	NoteDidYouMean
	ErrNotAValue
	ErrConstRequiresConstExpr
	ErrTypesForOperatorNotCompatible
	WarnAmbiguousNegation
	ErrAssignmentRequiresVar
	ErrTypesForAssignmentNotCompatible
	ErrNotAProcedure
	ErrNotAFunction
	WarnDiscardedResult
	ErrWrongNumberOfParameters
	ErrTypeOfFormalAndActualParameterNotCompatible
	ErrVarParameterRequiresVar
	ErrFunctionRequiresReturn
	ErrProcedureRequiresEmptyReturn
	ErrFunctionAndReturnTypeNotCompatible
	ErrIfExprMustBeBool
	ErrWhileExprMustBeBool
	numIDs
)

type entry struct {
	name     string
	severity Severity
	format   string
}

var table = [numIDs]entry{
	ErrExpected:                        {"err_expected", Error, "expected %s but found %s"},
	ErrUnterminatedComment:             {"err_unterminated_block_comment", Error, "unterminated (* comment"},
	ErrUnterminatedString:              {"err_unterminated_string", Error, "unterminated string literal"},
	ErrHexDigitInDecimal:               {"err_hex_digit_in_decimal", Error, "hexadecimal digit in decimal number %s"},
	ErrIntegerLiteralOverflow:          {"err_integer_literal_overflow", Error, "integer literal %s does not fit in 64 bits"},
	ErrNotYetImplemented:               {"err_not_yet_implemented", Error, "not yet implemented: %s"},
	ErrModuleIdentifierNotEqual:        {"err_module_identifier_not_equal", Error, "module identifier %s at end does not match module name %s"},
	NoteModuleIdentifierDeclaration:    {"note_module_identifier_declaration", Note, "module %s declared here"},
	ErrProcedureIdentifierNotEqual:     {"err_proc_identifier_not_equal", Error, "procedure identifier %s at end does not match procedure name %s"},
	NoteProcedureIdentifierDeclaration: {"note_proc_identifier_declaration", Note, "procedure %s declared here"},
	ErrSymbolDeclared:                  {"err_symbol_declared", Error, "symbol %s already declared"},
	NotePreviousDeclaration:            {"note_previous_declaration", Note, "previous declaration of %s is here"},
	ErrDeclRequiresType:                {"err_vardecl_requires_type", Error, "declaration requires a type, but %s is a %s"},
	ErrReturnTypeRequiresType:          {"err_returntype_must_be_type", Error, "return type of %s must be a type, but %s is a %s"},
	ErrUndeclaredName:                  {"err_undeclared_name", Error, "undeclared name %s"},
	NoteDidYouMean:                     {"note_did_you_mean", Note, "did you mean %s?"},
	ErrNotAValue:                       {"err_not_a_value", Error, "%s is a %s, not a value"},
	ErrConstRequiresConstExpr:          {"err_const_requires_const_expr", Error, "constant %s requires a constant expression"},
	ErrTypesForOperatorNotCompatible:   {"err_types_for_operator_not_compatible", Error, "types not compatible for operator %s"},
	WarnAmbiguousNegation:              {"warn_ambigous_negation", Warning, "ambiguous negation; use parentheses"},
	ErrAssignmentRequiresVar:           {"err_assignment_requires_var", Error, "cannot assign to %s, which is a %s"},
	ErrTypesForAssignmentNotCompatible: {"err_types_for_assignment_not_compatible", Error, "cannot assign %s value to %s of type %s"},
	ErrNotAProcedure:                   {"err_not_a_procedure", Error, "%s is a %s, not a procedure"},
	ErrNotAFunction:                    {"err_not_a_function", Error, "%s does not return a value"},
	WarnDiscardedResult:                {"warn_discarded_result", Warning, "result of function %s is discarded"},
	ErrWrongNumberOfParameters:         {"err_wrong_number_of_parameters", Error, "wrong number of parameters: %s takes %d, got %d"},
	ErrTypeOfFormalAndActualParameterNotCompatible: {
		"err_type_of_formal_and_actual_parameter_not_compatible", Error,
		"type of actual parameter %d (%s) does not match formal parameter %s of type %s",
	},
	ErrVarParameterRequiresVar:            {"err_var_parameter_requires_var", Error, "VAR parameter %s requires a variable argument"},
	ErrFunctionRequiresReturn:             {"err_function_requires_return", Error, "function requires return value"},
	ErrProcedureRequiresEmptyReturn:       {"err_procedure_requires_empty_return", Error, "procedure requires empty return"},
	ErrFunctionAndReturnTypeNotCompatible: {"err_function_and_return_type", Error, "returned %s value from function returning %s"},
	ErrIfExprMustBeBool:                   {"err_if_expr_must_be_bool", Error, "if expression must be boolean"},
	ErrWhileExprMustBeBool:                {"err_while_expr_must_be_bool", Error, "while expression must be boolean"},
}

// String returns the stable name of id, e.g. "err_expected".
func (id ID) String() string {
	if id >= numIDs {
		return fmt.Sprintf("ID(%d)", uint16(id))
	}

	return table[id].name
}

// Severity returns the severity reported for id.
func (id ID) Severity() Severity { return table[id].severity }

// Format returns the message format string for id.
func (id ID) Format() string { return table[id].format }

// Diagnostic is one reported message.
type Diagnostic struct {
	Pos      source.Pos
	Location source.Location
	Severity Severity
	ID       ID
	Message  string
}

// String returns "file:line:col: severity: message".
func (d Diagnostic) String() string {
	return d.Location.String() + ": " + d.Severity.String() + ": " + d.Message
}

// Engine accumulates diagnostics for one source buffer.
type Engine struct {
	// Notify, when set, observes every diagnostic as it is reported.
	Notify func(Diagnostic)

	buf      *source.Buffer
	diags    []Diagnostic
	errors   int
	warnings int
}

// NewEngine returns an engine resolving locations against buf, which may be
// nil.
func NewEngine(buf *source.Buffer) *Engine {
	return &Engine{buf: buf}
}

// Buffer returns the source buffer locations are resolved against.
func (e *Engine) Buffer() *source.Buffer { return e.buf }

// Report formats the message for id with args and records it at pos.
func (e *Engine) Report(pos source.Pos, id ID, args ...any) {
	d := Diagnostic{
		Pos:      pos,
		Location: e.buf.Location(pos),
		Severity: id.Severity(),
		ID:       id,
		Message:  fmt.Sprintf(id.Format(), args...),
	}

	switch d.Severity {
	case Error:
		e.errors++
	case Warning:
		e.warnings++
	}

	e.diags = append(e.diags, d)

	if e.Notify != nil {
		e.Notify(d)
	}
}

// NumErrors returns the number of error diagnostics reported.
func (e *Engine) NumErrors() int { return e.errors }

// NumWarnings returns the number of warning diagnostics reported.
func (e *Engine) NumWarnings() int { return e.warnings }

// Diagnostics returns the reported diagnostics in report order.
func (e *Engine) Diagnostics() []Diagnostic { return e.diags }

// Count returns how many diagnostics with the given id were reported.
func (e *Engine) Count(id ID) int {
	n := 0

	for _, d := range e.diags {
		if d.ID == id {
			n++
		}
	}

	return n
}

// Reset discards all diagnostics and counters.
func (e *Engine) Reset() {
	e.diags, e.errors, e.warnings = nil, 0, 0
}
