package models

import "time"

type EnvConfig struct {
	ConfigPath  string
	CookiesFile string

	HTTPSProxy string
	HTTPProxy  string
	NoProxy    string

	HTTPTimeout time.Duration
	LogLevel    string
}
