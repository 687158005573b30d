package transaction

import "go.uber.org/fx"

// Module exposes the admin listing service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
