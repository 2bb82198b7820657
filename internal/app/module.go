package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/dasgroupllc/archivebase/internal/app/api/server"
	"github.com/dasgroupllc/archivebase/internal/app/service/archivelog"
	"github.com/dasgroupllc/archivebase/internal/app/service/reconciler"
	"github.com/dasgroupllc/archivebase/internal/app/service/subscription"
	"github.com/dasgroupllc/archivebase/internal/app/service/webhooklog"
	"github.com/dasgroupllc/archivebase/internal/platform/airtable"
	"github.com/dasgroupllc/archivebase/internal/platform/db"
	"github.com/dasgroupllc/archivebase/internal/platform/lemonsqueezy"
	"github.com/dasgroupllc/archivebase/pkg/config"
	"github.com/dasgroupllc/archivebase/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	lemonsqueezy.Module,
	airtable.Module,
	subscription.Module,
	archivelog.Module,
	webhooklog.Module,
	reconciler.Module,
	server.Module,
)
