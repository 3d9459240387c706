package stockstore

import (
	"fmt"
	"net/url"
)

// Config selects where snapshots are kept, a remote libsql database when
// Url is set, otherwise the sqlite File.
type Config struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

func (config Config) DSN() (string, error) {
	if config.Url == "" {
		if config.File == "" {
			return "", fmt.Errorf("neither a stock store file nor url was specified")
		}
		return config.File, nil
	}

	if config.AuthToken == "" {
		return config.Url, nil
	}
	values := url.Values{}
	values.Add("authToken", config.AuthToken)
	return config.Url + "?" + values.Encode(), nil
}

func (config Config) Open() (Store, error) {
	dsn, err := config.DSN()
	if err != nil {
		return Store{}, err
	}
	return Open(dsn)
}
