// ABOUTME: Data source query filters (checkbox, date, multi-select, relation)
// ABOUTME: Compound filters require every condition to match
package notion

// Filter is a property filter or a compound of filters.
type Filter struct {
	And []Filter `json:"and,omitempty"`

	Property    string             `json:"property,omitempty"`
	Checkbox    *CheckboxCondition `json:"checkbox,omitempty"`
	Date        *DateCondition     `json:"date,omitempty"`
	MultiSelect *ContainsCondition `json:"multi_select,omitempty"`
	Relation    *ContainsCondition `json:"relation,omitempty"`
}

// CheckboxCondition matches a checkbox value.
type CheckboxCondition struct {
	Equals bool `json:"equals"`
}

// DateCondition matches a date on its calendar day.
type DateCondition struct {
	Equals string `json:"equals"`
}

// ContainsCondition matches a multi-select option name or related page id.
type ContainsCondition struct {
	Contains string `json:"contains"`
}

// And combines filters so that all must match.
func And(filters ...Filter) *Filter {
	return &Filter{And: filters}
}

// CheckboxEquals matches pages whose checkbox property equals v.
func CheckboxEquals(property string, v bool) Filter {
	return Filter{Property: property, Checkbox: &CheckboxCondition{Equals: v}}
}

// DateEquals matches pages whose date property falls on the day of iso.
func DateEquals(property, iso string) Filter {
	return Filter{Property: property, Date: &DateCondition{Equals: iso}}
}

// MultiSelectContains matches pages with option among the selected values.
func MultiSelectContains(property, option string) Filter {
	return Filter{Property: property, MultiSelect: &ContainsCondition{Contains: option}}
}

// RelationContains matches pages related to pageID.
func RelationContains(property, pageID string) Filter {
	return Filter{Property: property, Relation: &ContainsCondition{Contains: pageID}}
}
