package config

import (
	_ "embed"
)

// レイヤー名定数
const (
	LayerDefaults = "defaults"
	LayerUser     = "user"
	LayerProject  = "project"
	LayerEnv      = "env"
	LayerArgs     = "args"
)

// フラグから args レイヤーへ書き込む際の jubako パス
const (
	PathConfigEnv        = "/core/config_env"
	PathQuiet            = "/core/quiet"
	PathAppDir           = "/core/app_dir"
	PathDisplayOutput    = "/display/output"
	PathDisplayColor     = "/display/color"
	PathDisplayHyperlink = "/display/hyperlink"
)

//go:embed defaults.yaml
var defaultConfigYAML []byte
