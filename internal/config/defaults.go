package config

import "time"

const (
	defaultTerminationWait = 5 * time.Second
	defaultHealthInterval  = 10 * time.Second
)
