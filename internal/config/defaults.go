package config

const (
	defaultDataDir           = "~/.local/share/printq"
	defaultLogDir            = "~/.local/share/printq/logs"
	defaultUploadDir         = "~/.local/share/printq/uploads"
	defaultOutputDir         = "~/.local/share/printq/output"
	defaultAPIBind           = "127.0.0.1:7617"
	defaultPollInterval      = 2
	defaultHeartbeatInterval = 60
	defaultPrinterCommand    = "lp"
	defaultClientsSheet      = "CLIENTES"
	defaultRecipientsSheet   = "DESTINATARIOS"
	defaultSalesSheet        = "VENTAS"
	defaultDetailSheet       = "DETALLE_VENTAS"
	defaultShippingListName  = "shipping_list.pdf"
	defaultGuidesName        = "guides_list.pdf"
	defaultMaxItems          = 5
	defaultNotifyTimeout     = 10
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultTimezone          = "America/Santiago"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
			UploadDir: defaultUploadDir,
			OutputDir: defaultOutputDir,
			APIBind:   defaultAPIBind,
		},
		Workflow: Workflow{
			PollInterval:      defaultPollInterval,
			HeartbeatInterval: defaultHeartbeatInterval,
		},
		Printer: Printer{
			Command: defaultPrinterCommand,
		},
		Generation: Generation{
			ClientsSheet:     defaultClientsSheet,
			RecipientsSheet:  defaultRecipientsSheet,
			SalesSheet:       defaultSalesSheet,
			DetailSheet:      defaultDetailSheet,
			ShippingListName: defaultShippingListName,
			GuidesName:       defaultGuidesName,
			MaxItems:         defaultMaxItems,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Timezone: defaultTimezone,
	}
}
