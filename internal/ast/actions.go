package ast

// ActionTag enumerates every semantic action the source-language grammar
// can bind to a symbol (spec.md §4.G/H). The grammar's textual loader and
// the parsing table only ever carry these as strings; Builder.Dispatch
// resolves a tag's string spelling to its enumerant through actionTagNames
// on every call and then switches on the enumerant, so handlers are a switch
// rather than string-keyed closures.
type ActionTag int

const (
	ActionUnknown ActionTag = iota

	OnIntegerTypeParsed
	OnFloatTypeParsed
	OnBoolTypeParsed
	OnStringTypeParsed
	OnArrayIntTypeParsed
	OnArrayFloatTypeParsed
	OnArrayBoolTypeParsed
	OnArrayStringTypeParsed

	OnIntegerConstantParsed
	OnFloatConstantParsed
	OnStringConstantParsed
	OnTrueConstantParsed
	OnFalseConstantParsed
	OnIdentifierParsed

	OnUnaryPlusParsed
	OnUnaryMinusParsed
	OnUnaryNegationParsed

	OnBinaryPlusParsed
	OnBinaryMinusParsed
	OnBinaryMulParsed
	OnBinaryDivParsed
	OnBinaryModParsed
	OnBinaryOrParsed
	OnBinaryAndParsed
	OnBinaryEqualsParsed
	OnBinaryNotEqualsParsed
	OnBinaryLessParsed
	OnBinaryMoreParsed
	OnBinaryLessOrEqualsParsed
	OnBinaryMoreOrEqualsParsed

	PrepareFnCallParamsParsing
	OnFunctionCallParamListMemberParsed
	OnFunctionCallExprParsed
	OnFunctionCallStatementParsed

	ArrayElementAccess
	OnArrayElementAssignStatement

	OnVariableDeclarationParsed
	OnOptionalAssignParsed

	OnAssignStatementParsed

	OnReturnExpression
	OnReturnStatementParsed

	OnIfStatementParsed
	OnOptionalElseClauseParsed

	OnWhileLoopParsed

	PrepareCompositeStatementParsing
	OnCompositeStatementPartParsed
	OnCompositeStatementParsed

	OnPrintStatementParsed
	OnScanStatementParsed

	OnFunctionReturnTypeParsed
	OnFunctionParamParsed
	OnFunctionParsed
)

// actionTagNames maps every tag's grammar-text spelling to its enumerant.
// Kept as the single source of truth: LookupActionTag and KnownActionTags
// (the driver's startup cross-check) both consult it.
var actionTagNames = map[string]ActionTag{
	"OnIntegerTypeParsed":      OnIntegerTypeParsed,
	"OnFloatTypeParsed":        OnFloatTypeParsed,
	"OnBoolTypeParsed":         OnBoolTypeParsed,
	"OnStringTypeParsed":       OnStringTypeParsed,
	"OnArrayIntTypeParsed":     OnArrayIntTypeParsed,
	"OnArrayFloatTypeParsed":   OnArrayFloatTypeParsed,
	"OnArrayBoolTypeParsed":    OnArrayBoolTypeParsed,
	"OnArrayStringTypeParsed":  OnArrayStringTypeParsed,

	"OnIntegerConstantParsed": OnIntegerConstantParsed,
	"OnFloatConstantParsed":   OnFloatConstantParsed,
	"OnStringConstantParsed":  OnStringConstantParsed,
	"OnTrueConstantParsed":    OnTrueConstantParsed,
	"OnFalseConstantParsed":   OnFalseConstantParsed,
	"OnIdentifierParsed":      OnIdentifierParsed,

	"OnUnaryPlusParsed":     OnUnaryPlusParsed,
	"OnUnaryMinusParsed":    OnUnaryMinusParsed,
	"OnUnaryNegationParsed": OnUnaryNegationParsed,

	"OnBinaryPlusParsed":         OnBinaryPlusParsed,
	"OnBinaryMinusParsed":        OnBinaryMinusParsed,
	"OnBinaryMulParsed":          OnBinaryMulParsed,
	"OnBinaryDivParsed":          OnBinaryDivParsed,
	"OnBinaryModParsed":          OnBinaryModParsed,
	"OnBinaryOrParsed":           OnBinaryOrParsed,
	"OnBinaryAndParsed":          OnBinaryAndParsed,
	"OnBinaryEqualsParsed":       OnBinaryEqualsParsed,
	"OnBinaryNotEqualsParsed":    OnBinaryNotEqualsParsed,
	"OnBinaryLessParsed":         OnBinaryLessParsed,
	"OnBinaryMoreParsed":         OnBinaryMoreParsed,
	"OnBinaryLessOrEqualsParsed": OnBinaryLessOrEqualsParsed,
	"OnBinaryMoreOrEqualsParsed": OnBinaryMoreOrEqualsParsed,

	"PrepareFnCallParamsParsing":          PrepareFnCallParamsParsing,
	"OnFunctionCallParamListMemberParsed": OnFunctionCallParamListMemberParsed,
	"OnFunctionCallExprParsed":            OnFunctionCallExprParsed,
	"OnFunctionCallStatementParsed":       OnFunctionCallStatementParsed,

	"ArrayElementAccess":            ArrayElementAccess,
	"OnArrayElementAssignStatement": OnArrayElementAssignStatement,

	"OnVariableDeclarationParsed": OnVariableDeclarationParsed,
	"OnOptionalAssignParsed":      OnOptionalAssignParsed,

	"OnAssignStatementParsed": OnAssignStatementParsed,

	"OnReturnExpression":      OnReturnExpression,
	"OnReturnStatementParsed": OnReturnStatementParsed,

	"OnIfStatementParsed":         OnIfStatementParsed,
	"OnOptionalElseClauseParsed":  OnOptionalElseClauseParsed,

	"OnWhileLoopParsed": OnWhileLoopParsed,

	"PrepareCompositeStatementParsing": PrepareCompositeStatementParsing,
	"OnCompositeStatementPartParsed":   OnCompositeStatementPartParsed,
	"OnCompositeStatementParsed":       OnCompositeStatementParsed,

	"OnPrintStatementParsed": OnPrintStatementParsed,
	"OnScanStatementParsed":  OnScanStatementParsed,

	"OnFunctionReturnTypeParsed": OnFunctionReturnTypeParsed,
	"OnFunctionParamParsed":      OnFunctionParamParsed,
	"OnFunctionParsed":           OnFunctionParsed,
}

// LookupActionTag resolves a grammar action tag's textual spelling to its
// enumerant. Builder.Dispatch, like the driver's startup cross-check,
// treats a miss as ferr.InternalGrammar: an action tag with no bound handler
// is a configuration bug, never a user-facing error (spec.md §7).
func LookupActionTag(name string) (ActionTag, bool) {
	t, ok := actionTagNames[name]
	return t, ok
}

// KnownActionTags returns every tag name the builder can dispatch, used by
// the driver to cross-check the embedded grammar at startup.
func KnownActionTags() []string {
	names := make([]string, 0, len(actionTagNames))
	for n := range actionTagNames {
		names = append(names, n)
	}
	return names
}
