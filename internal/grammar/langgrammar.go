package grammar

// SourceLanguage is the declarative LL(1) grammar for the compiler's source
// language (spec.md §6), rewritten from the EBNF there into the line-syntax
// Parse understands: each Kleene-star repetition becomes a right-recursive
// tail nonterminal, and action tags mark the points spec.md §4.G/H's AST
// builder needs to fire at.
//
// Terminal names are exactly the token.Kind string values. Nothing checks
// this at startup: the driver compiles a parsing table from this text
// without comparing its terminals to the lexer's token kinds.
//
// <OptionalElse>'s two alternatives are not predict-set-disjoint: "Else" is
// in both FIRST of its first alternative and FOLLOW of the nonterminal
// itself (the classic dangling-else ambiguity — an if nested directly in
// another if's then-branch puts "Else" in FOLLOW(Stmt) by way of this very
// production). This grammar is therefore not strictly LL(1) by the
// diagnostic grammar.Analysis.IsLL1 check. It parses correctly anyway: the
// table compiler preserves alternative order, and the driver tries earlier
// alternatives before latter ones, so an "Else" lookahead always takes the
// first (non-epsilon) alternative — binding to the nearest enclosing if,
// which is the conventional dangling-else resolution.
const SourceLanguage = `
<Program> -> <FuncList> EOF

<FuncList> -> <Function> <FuncList>
<FuncList> -> #Eps#

<Function> -> Func Identifier {OnIdentifierParsed} LeftParen <ParamsOpt> RightParen <RetTypeOpt> Colon <Stmt> {OnFunctionParsed}

<ParamsOpt> -> <Params>
<ParamsOpt> -> #Eps#

<Params> -> <Param> <ParamsTail>

<ParamsTail> -> Comma <Param> <ParamsTail>
<ParamsTail> -> #Eps#

<Param> -> Identifier {OnIdentifierParsed} Colon <Type> {OnFunctionParamParsed}

<RetTypeOpt> -> Arrow <Type> {OnFunctionReturnTypeParsed}
<RetTypeOpt> -> #Eps#

<Type> -> Int {OnIntegerTypeParsed}
<Type> -> Float {OnFloatTypeParsed}
<Type> -> Bool {OnBoolTypeParsed}
<Type> -> String {OnStringTypeParsed}
<Type> -> Array LeftBracket <ArrayElemType> RightBracket

<ArrayElemType> -> Int {OnArrayIntTypeParsed}
<ArrayElemType> -> Float {OnArrayFloatTypeParsed}
<ArrayElemType> -> Bool {OnArrayBoolTypeParsed}
<ArrayElemType> -> String {OnArrayStringTypeParsed}

<Stmt> -> <IfStmt>
<Stmt> -> <WhileStmt>
<Stmt> -> <DeclStmt>
<Stmt> -> <ReturnStmt>
<Stmt> -> <BlockStmt>
<Stmt> -> <PrintStmt>
<Stmt> -> <ScanStmt>
<Stmt> -> <IdStmt>

<IfStmt> -> If LeftParen <Expr> RightParen <Stmt> {OnIfStatementParsed} <OptionalElse>

<OptionalElse> -> Else <Stmt> {OnOptionalElseClauseParsed}
<OptionalElse> -> #Eps#

<WhileStmt> -> While LeftParen <Expr> RightParen <Stmt> {OnWhileLoopParsed}

<DeclStmt> -> Var Identifier {OnIdentifierParsed} Colon <Type> <InitOpt> Semicolon {OnVariableDeclarationParsed}

<InitOpt> -> Assign <Expr> {OnOptionalAssignParsed}
<InitOpt> -> #Eps#

<ReturnStmt> -> Return <ReturnExprOpt> Semicolon {OnReturnStatementParsed}

<ReturnExprOpt> -> <Expr> {OnReturnExpression}
<ReturnExprOpt> -> #Eps#

<BlockStmt> -> LeftBrace {PrepareCompositeStatementParsing} <StmtListTail> RightBrace {OnCompositeStatementParsed}

<StmtListTail> -> <Stmt> {OnCompositeStatementPartParsed} <StmtListTail>
<StmtListTail> -> #Eps#

<PrintStmt> -> Print {PrepareFnCallParamsParsing} LeftParen <ArgsOpt> RightParen Semicolon {OnPrintStatementParsed}

<ScanStmt> -> Scan {PrepareFnCallParamsParsing} LeftParen <ArgsOpt> RightParen Semicolon {OnScanStatementParsed}

<ArgsOpt> -> <Args>
<ArgsOpt> -> #Eps#

<Args> -> <Expr> {OnFunctionCallParamListMemberParsed} <ArgsTail>

<ArgsTail> -> Comma <Expr> {OnFunctionCallParamListMemberParsed} <ArgsTail>
<ArgsTail> -> #Eps#

<IdStmt> -> Identifier {OnIdentifierParsed} <IdStmtTail>

<IdStmtTail> -> LeftBracket <Expr> RightBracket Assign <Expr> Semicolon {OnArrayElementAssignStatement}
<IdStmtTail> -> Assign <Expr> Semicolon {OnAssignStatementParsed}
<IdStmtTail> -> LeftParen {PrepareFnCallParamsParsing} <ArgsOpt> RightParen Semicolon {OnFunctionCallStatementParsed}

<Expr> -> <OrExpr>

<OrExpr> -> <AndExpr> <OrTail>

<OrTail> -> Or <AndExpr> {OnBinaryOrParsed} <OrTail>
<OrTail> -> #Eps#

<AndExpr> -> <EqExpr> <AndTail>

<AndTail> -> And <EqExpr> {OnBinaryAndParsed} <AndTail>
<AndTail> -> #Eps#

<EqExpr> -> <RelExpr> <EqTail>

<EqTail> -> Equals <RelExpr> {OnBinaryEqualsParsed} <EqTail>
<EqTail> -> NotEquals <RelExpr> {OnBinaryNotEqualsParsed} <EqTail>
<EqTail> -> #Eps#

<RelExpr> -> <AddExpr> <RelTail>

<RelTail> -> LeftAngleBracket <AddExpr> {OnBinaryLessParsed} <RelTail>
<RelTail> -> RightAngleBracket <AddExpr> {OnBinaryMoreParsed} <RelTail>
<RelTail> -> LessOrEquals <AddExpr> {OnBinaryLessOrEqualsParsed} <RelTail>
<RelTail> -> MoreOrEquals <AddExpr> {OnBinaryMoreOrEqualsParsed} <RelTail>
<RelTail> -> #Eps#

<AddExpr> -> <MulExpr> <AddTail>

<AddTail> -> Plus <MulExpr> {OnBinaryPlusParsed} <AddTail>
<AddTail> -> Minus <MulExpr> {OnBinaryMinusParsed} <AddTail>
<AddTail> -> #Eps#

<MulExpr> -> <Atom> <MulTail>

<MulTail> -> Mul <Atom> {OnBinaryMulParsed} <MulTail>
<MulTail> -> Div <Atom> {OnBinaryDivParsed} <MulTail>
<MulTail> -> Mod <Atom> {OnBinaryModParsed} <MulTail>
<MulTail> -> #Eps#

<Atom> -> LeftParen <Expr> RightParen
<Atom> -> IntegerConstant {OnIntegerConstantParsed}
<Atom> -> FloatConstant {OnFloatConstantParsed}
<Atom> -> StringConstant {OnStringConstantParsed}
<Atom> -> True {OnTrueConstantParsed}
<Atom> -> False {OnFalseConstantParsed}
<Atom> -> Minus <Atom> {OnUnaryMinusParsed}
<Atom> -> Plus <Atom> {OnUnaryPlusParsed}
<Atom> -> Negation <Atom> {OnUnaryNegationParsed}
<Atom> -> Identifier {OnIdentifierParsed} <AtomTail>

<AtomTail> -> LeftParen {PrepareFnCallParamsParsing} <ArgsOpt> RightParen {OnFunctionCallExprParsed}
<AtomTail> -> LeftBracket <Expr> RightBracket {ArrayElementAccess}
<AtomTail> -> #Eps#
`
