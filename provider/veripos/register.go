package veripos

import (
	"github.com/ordapay/ordapay/provider"
)

func init() {
	provider.Register("veripos", NewProvider)
}
