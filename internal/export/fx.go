package export

import "go.uber.org/fx"

var Module = fx.Module("export",
	fx.Provide(NewPDFGenerator),
	fx.Provide(NewCSVWriter),
	fx.Provide(NewMailer),
	fx.Provide(NewExporter),
)
