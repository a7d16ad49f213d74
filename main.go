package main

import (
	"time"

	"github.com/ruvdl/ruvdl/cmd"
	"github.com/ruvdl/ruvdl/config"
	"github.com/ruvdl/ruvdl/internal/cache"
	"github.com/ruvdl/ruvdl/key"
	"github.com/ruvdl/ruvdl/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	if viper.GetBool(key.CachePages) {
		go cache.Pages(time.Duration(viper.GetInt(key.CacheTTL)) * time.Hour).CollectGarbage()
	}

	cmd.Execute()
}
