package opts

import (
	"github.com/walteh/sortrc/pkg/config"
	"github.com/walteh/sortrc/pkg/ledger"
	"github.com/walteh/sortrc/pkg/log"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	Config     *config.Config
	ConfigPath string
	Store      *ledger.Store
	LockPath   string
	UserLogger *log.Logger
}
