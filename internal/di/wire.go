//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"chatroom/internal/config"
)

var clientSet = wire.NewSet(
	ProvideGateway,
	ProvideAuth,
	ProvideSession,
	ProvideFeedFactory,
	ProvideGallery,
	ProvidePicker,
	wire.Struct(new(Application), "*"),
)

func InitializeApplication(ctx context.Context, cfg *config.Config) (*Application, func(), error) {
	wire.Build(clientSet)
	return &Application{}, nil, nil
}
