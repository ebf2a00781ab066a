package oaa

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// PropertyType is an OAA custom property type
type PropertyType string

const (
	PropertyString     PropertyType = "STRING"
	PropertyBoolean    PropertyType = "BOOLEAN"
	PropertyNumber     PropertyType = "NUMBER"
	PropertyTimestamp  PropertyType = "TIMESTAMP"
	PropertyStringList PropertyType = "STRING_LIST"
)

func (p PropertyType) accepts(v any) bool {
	switch p {
	case PropertyString:
		_, ok := v.(string)
		return ok
	case PropertyBoolean:
		_, ok := v.(bool)
		return ok
	case PropertyNumber:
		switch v.(type) {
		case int, int64, float64:
			return true
		}
	case PropertyTimestamp:
		_, ok := v.(time.Time)
		return ok
	case PropertyStringList:
		_, ok := v.([]string)
		return ok
	}
	return false
}

// propertyDefs is an ordered set of property definitions of one entity kind
type propertyDefs struct {
	names []string
	types map[string]PropertyType
}

func (d *propertyDefs) define(name string, t PropertyType) {
	if d.types == nil {
		d.types = make(map[string]PropertyType)
	}
	if _, ok := d.types[name]; !ok {
		d.names = append(d.names, name)
	}
	d.types[name] = t
}

func (d *propertyDefs) check(name string, v any) error {
	t, ok := d.types[name]
	if !ok {
		return goerr.Wrap(ErrUndefinedProperty, "cannot set property", goerr.V(PropertyKey, name))
	}
	if !t.accepts(v) {
		return goerr.Wrap(ErrPropertyType, "cannot set property",
			goerr.V(PropertyKey, name), goerr.V("type", t))
	}
	return nil
}

func (d *propertyDefs) payload() map[string]string {
	out := make(map[string]string, len(d.names))
	for _, n := range d.names {
		out[n] = string(d.types[n])
	}
	return out
}

// properties holds values in insertion order
type properties struct {
	defs   *propertyDefs
	values map[string]any
}

func (p *properties) set(name string, v any) error {
	if err := p.defs.check(name, v); err != nil {
		return err
	}
	if p.values == nil {
		p.values = make(map[string]any)
	}
	if ts, ok := v.(time.Time); ok {
		v = ts.UTC().Format(time.RFC3339)
	}
	p.values[name] = v
	return nil
}

func (p *properties) get(name string) (any, bool) {
	v, ok := p.values[name]
	return v, ok
}

func (p *properties) payload() map[string]any {
	out := make(map[string]any, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}
