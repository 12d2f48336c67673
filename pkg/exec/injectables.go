package exec

import "github.com/goliatone/go-jsontemplate/pkg/value"

// GetInjectable returns the parsed injectable name. String entries are
// decoded as JSON at most once per context; absent names are memoized as
// Missing.
func (c *Context) GetInjectable(name string) value.Value {
	if !c.injectablesSet {
		return value.Missing()
	}
	if v, ok := c.parsedInjectables[name]; ok {
		return v
	}

	raw := c.rawInjectables.Key(name)
	parsed := value.Missing()
	switch {
	case raw.IsString():
		parsed = c.decodeInjectable(raw.Text())
	case raw.IsArray(), raw.IsObject():
		parsed = raw
	}
	if c.parsedInjectables == nil {
		c.parsedInjectables = make(map[string]value.Value)
	}
	c.parsedInjectables[name] = parsed
	return parsed
}
