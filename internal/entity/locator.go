package entity

import "fmt"

// LocatorStrategy selects how a Locator's value is evaluated against the DOM.
type LocatorStrategy string

const (
	ByCSS   LocatorStrategy = "css"
	ByXPath LocatorStrategy = "xpath"
)

// Locator identifies one or more DOM elements.
type Locator struct {
	Strategy LocatorStrategy
	Value    string
}

// CSS builds a CSS selector locator.
func CSS(selector string) Locator {
	return Locator{Strategy: ByCSS, Value: selector}
}

// XPath builds an XPath locator.
func XPath(expr string) Locator {
	return Locator{Strategy: ByXPath, Value: expr}
}

// IsZero reports whether the locator is unset.
func (l Locator) IsZero() bool {
	return l.Value == ""
}

func (l Locator) String() string {
	return fmt.Sprintf("%s(%s)", l.Strategy, l.Value)
}
