/*
Package metrics contains HTTP services exposing monitoring data of the VM and
the collector gathering it.
*/
package metrics

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/nspcc-dev/michelson-go/pkg/config"
	"go.uber.org/zap"
)

// Service serves metrics on a set of addresses.
type Service struct {
	http        []*http.Server
	config      config.BasicService
	log         *zap.Logger
	serviceType string
	wg          sync.WaitGroup
}

// NewService configures logger and returns a new service instance.
func NewService(name string, httpServers []*http.Server, cfg config.BasicService, log *zap.Logger) *Service {
	return &Service{
		http:        httpServers,
		config:      cfg,
		serviceType: name,
		log:         log.With(zap.String("service", name)),
	}
}

// Name returns the service name.
func (ms *Service) Name() string {
	return ms.serviceType
}

// Start runs http service with the exposed endpoint on every configured
// address. It doesn't block.
func (ms *Service) Start() {
	if !ms.config.Enabled {
		ms.log.Info("service hasn't started since it's disabled")
		return
	}
	for _, srv := range ms.http {
		ms.log.Info("service is running", zap.String("endpoint", srv.Addr))
		ms.wg.Add(1)
		go func(srv *http.Server) {
			defer ms.wg.Done()
			err := srv.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				ms.log.Warn("service couldn't start on configured port",
					zap.String("endpoint", srv.Addr), zap.Error(err))
			}
		}(srv)
	}
}

// ShutDown stops the service and waits for its servers to exit.
func (ms *Service) ShutDown() {
	if !ms.config.Enabled {
		return
	}
	for _, srv := range ms.http {
		ms.log.Info("shutting down service", zap.String("endpoint", srv.Addr))
		err := srv.Shutdown(context.Background())
		if err != nil {
			ms.log.Error("can't shut service down", zap.String("endpoint", srv.Addr), zap.Error(err))
		}
	}
	ms.wg.Wait()
}
