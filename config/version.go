package config

import (
	"fmt"
)

var (
	version = "dev"
	AppName = "cfddns6"
	intro   = "Point a set of domains at one IPv6 address on Cloudflare."
	date    = "unknown"
)

func ShowVersion() {
	fmt.Printf("%s %s, built at %s\n%s\n", AppName, version, date, intro)
}
