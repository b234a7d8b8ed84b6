package driver

import (
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/mwblythe/squote"
)

// Register wraps the database/sql driver registered as "to" so that
// placeholders are interpolated client side, and registers the result as
// "squote-<to>" (see the Name option). Like sql.Register it panics if the
// name is already taken; it also panics if "to" is unknown.
func Register(to string, o ...Option) {
	opt := Options{name: "squote-" + to}
	opt.set(o...)

	orig, err := lookup(to)
	if err != nil {
		panic("squote/driver: " + err.Error())
	}

	sql.Register(opt.name, Wrap(orig, opt.builder))
}

// lookup finds a registered driver by name without connecting
func lookup(name string) (driver.Driver, error) {
	db, err := sql.Open(name, "")
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return db.Driver(), nil
}

// Wrap returns a driver that renders queries with b before handing them to
// orig. A nil builder means squote.NewBuilder().
func Wrap(orig driver.Driver, b *squote.Builder) driver.Driver {
	if b == nil {
		b = squote.NewBuilder()
	}

	if dc, ok := orig.(driverContext); ok {
		return &driverContextWrapper{driverContext: dc, builder: b}
	}

	return &driverWrapper{Driver: orig, builder: b}
}

// driverWrapper is a wrapper for basic drivers
type driverWrapper struct {
	driver.Driver // the driver being wrapped
	builder       *squote.Builder
}

// Open a connection
func (d *driverWrapper) Open(name string) (driver.Conn, error) {
	orig, err := d.Driver.Open(name)
	if err != nil {
		return nil, err
	}
	return wrapConn(orig, d.builder), nil
}

// wrapped driver implementing DriverContext
type driverContext interface {
	driver.Driver
	driver.DriverContext
}

// driverContextWrapper is a wrapper for DriverContext drivers
type driverContextWrapper struct {
	driverContext
	builder *squote.Builder
}

// Open a connection
func (d *driverContextWrapper) Open(name string) (driver.Conn, error) {
	orig, err := d.driverContext.Open(name)
	if err != nil {
		return nil, err
	}
	return wrapConn(orig, d.builder), nil
}

// OpenConnector opens a connector
func (d *driverContextWrapper) OpenConnector(name string) (driver.Connector, error) {
	orig, err := d.driverContext.OpenConnector(name)
	if err != nil {
		return nil, err
	}

	return &connector{Connector: orig, driver: d, builder: d.builder}, nil
}

// convert from []Value to []NamedValue
func valsToNamed(vals []driver.Value) (named []driver.NamedValue) {
	named = make([]driver.NamedValue, len(vals))

	for n := range vals {
		named[n] = driver.NamedValue{
			Ordinal: n + 1,
			Value:   vals[n],
		}
	}

	return
}

// convert from []NamedValue to positional args
func namedToArgs(named []driver.NamedValue) ([]interface{}, error) {
	args := make([]interface{}, len(named))

	for n := range named {
		if named[n].Name != "" {
			return nil, fmt.Errorf("squote/driver: named argument %q not supported", named[n].Name)
		}
		args[n] = named[n].Value
	}

	return args, nil
}
