package driver

import (
	"context"
	"database/sql"
	"database/sql/driver"

	"github.com/mwblythe/squote"
)

// connector wraps a driver.Connector so its connections render queries
type connector struct {
	driver.Connector
	driver  driver.Driver
	builder *squote.Builder
}

// WrapConnector wraps c so its connections render with b.
// A nil builder means squote.NewBuilder().
func WrapConnector(c driver.Connector, b *squote.Builder) driver.Connector {
	if b == nil {
		b = squote.NewBuilder()
	}

	return &connector{
		Connector: c,
		driver:    Wrap(c.Driver(), b),
		builder:   b,
	}
}

// OpenDB is sql.OpenDB over a wrapped connector
func OpenDB(c driver.Connector, o ...Option) *sql.DB {
	var opt Options
	opt.set(o...)

	return sql.OpenDB(WrapConnector(c, opt.builder))
}

func (c *connector) Driver() driver.Driver {
	return c.driver
}

func (c *connector) Connect(ctx context.Context) (driver.Conn, error) {
	orig, err := c.Connector.Connect(ctx)
	if err != nil {
		return nil, err
	}

	return wrapConn(orig, c.builder), nil
}
