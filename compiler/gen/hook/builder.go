package hook

// Module is a TypeScript module: imports followed by declarations.
type Module struct {
	Imports []Import
	Decls   []Decl
}

// Import is a named import statement.
type Import struct {
	Names []string
	From  string
	// Type marks an "import type" statement.
	Type bool
}

// Decl is a top-level declaration of a Module.
type Decl interface {
	decl()
}

type (
	// Interface is an exported interface declaration.
	Interface struct {
		Name  string
		Props []Prop
	}

	// Prop is a property of an object type. Names that are not valid
	// identifiers are quoted when printed.
	Prop struct {
		Name     string
		Type     string
		Optional bool
	}

	// Reexport is an "export * from" statement.
	Reexport struct {
		From string
	}

	// Hook is an exported react-query hook wrapping a single fetch call.
	Hook struct {
		Name string
		// Params is the parameter bundle. An empty bundle omits the
		// argument; an all-optional bundle defaults it to {}.
		Params []Prop
		// Mutation selects useMutation over useQuery.
		Mutation bool
		// Result is the type argument of the query or mutation.
		Result string
		// Key is the query key of a read.
		Key []Expr
		// URL is the request path.
		URL Template
		// Query lists the query string entries. Undefined values are
		// filtered out at run time.
		Query []Entry
		// Method is the HTTP method of a write.
		Method string
		// Body is the JSON request payload of a write, if any.
		Body Expr
		// Decode reports whether the response body is returned, cast to
		// Result. Otherwise the hook returns Empty.
		Decode bool
		// Empty is the value returned when Decode is false.
		Empty string
	}
)

func (*Interface) decl() {}
func (*Reexport) decl()  {}
func (*Hook) decl()      {}

// Expr is a TypeScript expression.
type Expr interface {
	expr()
}

type (
	// Str is a string literal.
	Str string

	// Member is a property access on a named object, e.g. params.id.
	Member struct {
		Object string
		Name   string
	}

	// Call is a call of a global function.
	Call struct {
		Func string
		Args []Expr
	}

	// Template is a template literal.
	Template []Part

	// Part is a template literal part: static Text, or an interpolated
	// Expr when Expr is non-nil.
	Part struct {
		Text string
		Expr Expr
	}

	// Entry is a key of an object literal and its value.
	Entry struct {
		Key   string
		Value Expr
	}
)

func (Str) expr()      {}
func (*Member) expr()  {}
func (*Call) expr()    {}
func (Template) expr() {}
