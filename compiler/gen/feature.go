package gen

var (
	// FeatureSQL renders the table DDL and the stored function stubs.
	FeatureSQL = Feature{
		Name:        "sql",
		Default:     true,
		Description: "SQL renders one CREATE TABLE file per table and one CREATE FUNCTION file per operation",
		Dir:         "db",
	}

	// FeatureHooks renders the TypeScript react-query hooks and types.
	FeatureHooks = Feature{
		Name:        "hooks",
		Default:     true,
		Description: "Hooks renders a typed query or mutation hook per operation, the types module and an index",
		Dir:         "frontend/src",
	}

	// FeatureGoModels renders Go structs mirroring the tables.
	FeatureGoModels = Feature{
		Name:        "go",
		Default:     false,
		Description: "GoModels renders one Go struct per table with JSON tags",
		Dir:         "go",
	}

	// AllFeatures holds the known artifact families in rendering order.
	AllFeatures = []Feature{
		FeatureSQL,
		FeatureHooks,
		FeatureGoModels,
	}
)

// A Feature is an optional family of generated artifacts.
type Feature struct {
	// Name of the feature, as used on the command line.
	Name string

	// Default values indicates if this feature is enabled by default.
	Default bool

	// A Description of this feature.
	Description string

	// Dir is the directory, relative to the output root, that holds the
	// feature's artifacts.
	Dir string
}

// DefaultFeatures returns the features enabled by default.
func DefaultFeatures() []Feature {
	var fs []Feature
	for _, f := range AllFeatures {
		if f.Default {
			fs = append(fs, f)
		}
	}
	return fs
}

// FeatureByName looks up a known feature.
func FeatureByName(name string) (Feature, bool) {
	for _, f := range AllFeatures {
		if f.Name == name {
			return f, true
		}
	}
	return Feature{}, false
}
