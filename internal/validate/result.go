package validate

const (
	CategoryStructure    = "structure"
	CategoryServers      = "servers"
	CategoryEnvironment  = "environment"
	CategoryConnectivity = "connectivity"
)

// CategoryResult is the outcome of one validation category.
// A category that did not run keeps Valid set to true.
type CategoryResult struct {
	Valid    bool     `json:"valid" yaml:"valid"`
	Errors   []string `json:"errors" yaml:"errors"`
	Warnings []string `json:"warnings" yaml:"warnings"`
	Ran      bool     `json:"ran" yaml:"ran"`
}

// Details holds the per-category results.
type Details struct {
	Structure    CategoryResult `json:"structure" yaml:"structure"`
	Servers      CategoryResult `json:"servers" yaml:"servers"`
	Environment  CategoryResult `json:"environment" yaml:"environment"`
	Connectivity CategoryResult `json:"connectivity" yaml:"connectivity"`
}

// Result is the outcome of validating a configuration file.
// Valid is true if and only if Errors is empty, warnings never affect it.
type Result struct {
	Path     string   `json:"path" yaml:"path"`
	Valid    bool     `json:"valid" yaml:"valid"`
	Errors   []string `json:"errors" yaml:"errors"`
	Warnings []string `json:"warnings" yaml:"warnings"`
	Details  Details  `json:"details" yaml:"details"`
}

// Categories returns the category results in the order they run.
func (d Details) Categories() []NamedCategory {
	return []NamedCategory{
		{Name: CategoryStructure, Result: d.Structure},
		{Name: CategoryServers, Result: d.Servers},
		{Name: CategoryEnvironment, Result: d.Environment},
		{Name: CategoryConnectivity, Result: d.Connectivity},
	}
}

// NamedCategory pairs a category result with its name.
type NamedCategory struct {
	Name   string
	Result CategoryResult
}

func newCategory() CategoryResult {
	return CategoryResult{
		Valid:    true,
		Errors:   []string{},
		Warnings: []string{},
	}
}

func newResult(path string) Result {
	return Result{
		Path:     path,
		Valid:    true,
		Errors:   []string{},
		Warnings: []string{},
		Details: Details{
			Structure:    newCategory(),
			Servers:      newCategory(),
			Environment:  newCategory(),
			Connectivity: newCategory(),
		},
	}
}

func (c *CategoryResult) addError(msg string) {
	c.Valid = false
	c.Errors = append(c.Errors, msg)
}

func (c *CategoryResult) addWarning(msg string) {
	c.Warnings = append(c.Warnings, msg)
}

// absorb appends a category's messages to the aggregate result.
func (r *Result) absorb(c CategoryResult) {
	r.Errors = append(r.Errors, c.Errors...)
	r.Warnings = append(r.Warnings, c.Warnings...)
	r.Valid = len(r.Errors) == 0
}
