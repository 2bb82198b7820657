package lemonsqueezy

import (
	"go.uber.org/fx"

	cfgpkg "github.com/dasgroupllc/archivebase/pkg/config"
)

func NewFromConfig(cfg *cfgpkg.Config) *Client {
	return NewClient(cfg.LemonSqueezy.APIKey)
}

var Module = fx.Options(
	fx.Provide(NewFromConfig),
)
