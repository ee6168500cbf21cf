package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde
// env y opcionalmente archivo .env).
type Config struct {
	App        AppConfig
	Odoo       OdooConfig
	Deployment DeploymentConfig
	Data       DataConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// OdooConfig datos de conexión al ERP destino.
type OdooConfig struct {
	URL      string
	DB       string
	Username string
	Password string
}

// DeploymentConfig constantes numéricas del despliegue destino. Cada
// instalación del ERP usa su propio espacio de ids; nada de esto se
// hardcodea en los pipelines.
type DeploymentConfig struct {
	JournalID        int // diario de ventas
	PaymentJournalID int // diario de banco para pagos
	CurrencyID       int // CLP
	CountryID        int // Chile
	TaxIDTypeID      int // tipo de identificación RUT
	PurchaseUserID   int // usuario al que se asignan las órdenes de compra
	// MappingFile redefine las tablas de mapeo (JSON); vacío = tablas por
	// defecto del despliegue de referencia.
	MappingFile string
	// PurchaseThrottle pausa entre órdenes de compra creadas.
	PurchaseThrottle time.Duration
}

// DataConfig rutas de los datos fuente y del cache geográfico.
type DataConfig struct {
	InvoiceDirs     []string // libros de facturas (type 33/34)
	CreditNoteDirs  []string // libros de notas de crédito (type 61)
	PurchaseFile    string   // libro de órdenes de compra
	GeoCacheFile    string   // archivo consolidado de comunas/ciudades
	DateRangeStart  string   // "YYYY-MM", vacío = sin cota
	DateRangeEnd    string   // "YYYY-MM", vacío = sin cota
}

// Validate verifica que la conexión al ERP esté completa.
func (c *Config) Validate() error {
	o := c.Odoo
	if o.URL == "" || o.DB == "" || o.Username == "" || o.Password == "" {
		return fmt.Errorf("configuración Odoo incompleta: se requieren ODOO_URL, ODOO_DB, ODOO_USERNAME y ODOO_PASSWORD")
	}
	return nil
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde
// archivo). Las env vars tienen prioridad.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración .env
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "dte-migrator"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		Odoo: OdooConfig{
			URL:      getString(v, "ODOO_URL", ""),
			DB:       getString(v, "ODOO_DB", ""),
			Username: getString(v, "ODOO_USERNAME", ""),
			Password: getString(v, "ODOO_PASSWORD", ""),
		},
		Deployment: DeploymentConfig{
			JournalID:        getInt(v, "ODOO_JOURNAL_ID", 1),
			PaymentJournalID: getInt(v, "ODOO_PAYMENT_JOURNAL_ID", 7),
			CurrencyID:       getInt(v, "ODOO_CURRENCY_ID", 44),
			CountryID:        getInt(v, "ODOO_COUNTRY_ID", 46),
			TaxIDTypeID:      getInt(v, "ODOO_TAX_ID_TYPE_ID", 4),
			PurchaseUserID:   getInt(v, "ODOO_PURCHASE_USER_ID", 2),
			MappingFile:      getString(v, "MAPPING_FILE", ""),
			PurchaseThrottle: time.Duration(getInt(v, "PURCHASE_THROTTLE_MS", 500)) * time.Millisecond,
		},
		Data: DataConfig{
			InvoiceDirs:    getStringSlice(v, "DATA_INVOICE_DIRS", []string{"data/dtes/facturas"}),
			CreditNoteDirs: getStringSlice(v, "DATA_CREDIT_NOTE_DIRS", []string{"data/dtes/notas de credito"}),
			PurchaseFile:   getString(v, "DATA_PURCHASE_FILE", "data/ordenes-de-compra/ordenes-compra.xls"),
			GeoCacheFile:   getString(v, "DATA_GEO_CACHE_FILE", "data/geo/consolidado.xlsx"),
			DateRangeStart: getString(v, "DATE_RANGE_START", ""),
			DateRangeEnd:   getString(v, "DATE_RANGE_END", ""),
		},
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		return v.GetInt(key)
	}
	return def
}

// getStringSlice acepta listas separadas por coma en la variable de entorno.
func getStringSlice(v *viper.Viper, key string, def []string) []string {
	if !v.IsSet(key) {
		return def
	}
	raw := v.GetString(key)
	if raw == "" {
		return def
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
