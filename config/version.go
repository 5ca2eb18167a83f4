package config

import (
	"fmt"
)

var (
	version = "dev"
	AppName = "CFDDNS"
	intro   = "A Cloudflare dynamic DNS updater that keeps A records on the public IPv4 address of this host."
	date    = "unknown"
)

func ShowVersion() {
	fmt.Printf("%s %s, built at %s\n%s\n", AppName, version, date, intro)
}
