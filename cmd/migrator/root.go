package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/dte-migrator/internal/application/geo"
	"github.com/jhoicas/dte-migrator/internal/application/migration"
	"github.com/jhoicas/dte-migrator/internal/application/payment"
	"github.com/jhoicas/dte-migrator/internal/domain/mapping"
	"github.com/jhoicas/dte-migrator/internal/domain/territory"
	infraodoo "github.com/jhoicas/dte-migrator/internal/infrastructure/odoo"
	infraxlsx "github.com/jhoicas/dte-migrator/internal/infrastructure/xlsx"
	"github.com/jhoicas/dte-migrator/pkg/config"
	"github.com/jhoicas/dte-migrator/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "dte-migrator",
	Short: "Migra DTEs y órdenes de compra desde exports de planilla hacia Odoo",
	Long: `dte-migrator carga documentos tributarios electrónicos (facturas,
facturas exentas y notas de crédito) y órdenes de compra desde los exports
del sistema fuente hacia un Odoo por JSON-RPC.

La carga es idempotente: los documentos se deduplican por la tripleta
(número, diario, move_type), los partners por RUT y los productos por código,
de modo que reprocesar un lote no crea duplicados.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(dtesCmd)
	rootCmd.AddCommand(purchaseCmd)
	rootCmd.AddCommand(exportGeoCmd)
	rootCmd.AddCommand(versionCmd)
}

// app agrupa las dependencias ya cableadas que comparten los subcomandos.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	tables   mapping.Tables
	client   *infraodoo.Client
	registry *geo.Registry
}

// bootstrap carga configuración, logger, tablas de mapeo y el cliente del ERP.
func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	log.Info().Str("env", cfg.App.Env).Str("app", cfg.App.Name).Msg("iniciando migrador")

	tables, err := mapping.Load(cfg.Deployment.MappingFile)
	if err != nil {
		return nil, err
	}

	session := infraodoo.NewSession(infraodoo.Credentials{
		URL:      cfg.Odoo.URL,
		DB:       cfg.Odoo.DB,
		Username: cfg.Odoo.Username,
		Password: cfg.Odoo.Password,
	})
	client := infraodoo.NewClient(session, log)

	scanDirs := append(append([]string{}, cfg.Data.InvoiceDirs...), cfg.Data.CreditNoteDirs...)
	source := infraxlsx.NewCatalogSource(cfg.Data.GeoCacheFile, scanDirs, log)
	registry := geo.NewRegistry(source, log)

	return &app{
		cfg:      cfg,
		log:      log,
		tables:   tables,
		client:   client,
		registry: registry,
	}, nil
}

// dtePipeline cablea el pipeline de DTEs con los servicios del ERP.
func (a *app) dtePipeline() (*migration.DTEPipeline, error) {
	regions, err := territory.NewResolver()
	if err != nil {
		return nil, err
	}
	settler := payment.NewSequencer(infraodoo.NewPaymentService(a.client), a.log)
	return migration.NewDTEPipeline(
		infraodoo.NewPartnerService(a.client),
		infraodoo.NewProductService(a.client),
		infraodoo.NewInvoiceService(a.client),
		settler,
		a.registry,
		regions,
		a.tables,
		migration.Config{
			JournalID:        a.cfg.Deployment.JournalID,
			CurrencyID:       a.cfg.Deployment.CurrencyID,
			CountryID:        a.cfg.Deployment.CountryID,
			TaxIDTypeID:      a.cfg.Deployment.TaxIDTypeID,
			PaymentJournalID: a.cfg.Deployment.PaymentJournalID,
		},
		a.log,
	), nil
}
