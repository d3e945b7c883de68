package app

import (
	"github.com/carousell/ct-go/pkg/logger"
	"github.com/scanbridge/scanbridge/internal/config"
	"github.com/scanbridge/scanbridge/internal/repo/mongodb"
	"github.com/scanbridge/scanbridge/internal/server"
	"github.com/scanbridge/scanbridge/internal/usecase"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"
)

func Invoke(funcs ...any) *fx.App {
	log := logger.MustNamed("app")
	conf := config.MustLoad()
	log.Debugw("config loaded", log.Reflect("config", conf))
	return fx.New(
		fx.WithLogger(func() fxevent.Logger {
			l := &fxevent.ZapLogger{
				Logger: log.Unwrap().Desugar(),
			}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
		fx.Provide(
			newMongoDB,
			newServices,
			newRegistry,

			server.NewHandler,

			usecase.NewScanOrchestrator,
			usecase.NewBotEventRouter,

			mongodb.NewEANCacheRepository,
			mongodb.NewEntrySessionRepository,
		),
		fx.Supply(conf),
		fx.Invoke(funcs...),
	)
}
