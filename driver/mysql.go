package driver

import (
	"database/sql"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/mwblythe/squote"
)

// OpenMySQL opens a MySQL/MariaDB database whose queries are rendered by
// squote. Driver side interpolation is turned off. Without a Builder option
// the escaper follows the DSN's sql_mode param: NO_BACKSLASH_ESCAPES selects
// squote.QuoteDoubling, anything else squote.Backslash. A charset or
// collation that squote.CheckCharset rejects (gbk, big5, sjis, ...) fails
// with squote.ErrUnsafeCharset.
//
// db, err := driver.OpenMySQL("user:pass@tcp(localhost)/app?sql_mode=%27NO_BACKSLASH_ESCAPES%27")
func OpenMySQL(dsn string, o ...Option) (*sql.DB, error) {
	var opt Options
	opt.set(o...)

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	cfg.InterpolateParams = false

	if err := mysqlCharsets(cfg); err != nil {
		return nil, err
	}

	if opt.builder == nil {
		opt.builder = squote.NewBuilder(squote.WithEscaper(mysqlEscaper(cfg)))
	}

	c, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, err
	}

	return sql.OpenDB(WrapConnector(c, opt.builder)), nil
}

// mysqlEscaper picks the escaper matching the session a DSN will create
func mysqlEscaper(cfg *mysql.Config) squote.Escaper {
	return squote.EscaperForMode(cfg.Params["sql_mode"])
}

// mysqlCharsets rejects DSNs whose session charset defeats escaping.
// charset may list several candidates; any of them could be picked.
func mysqlCharsets(cfg *mysql.Config) error {
	names := []string{cfg.Collation, cfg.Params["character_set_client"]}
	names = append(names, strings.Split(cfg.Params["charset"], ",")...)

	for _, name := range names {
		if err := squote.CheckCharset(name); err != nil {
			return err
		}
	}

	return nil
}
