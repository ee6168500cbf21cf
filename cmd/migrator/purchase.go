package main

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/dte-migrator/internal/application/migration"
	infraodoo "github.com/jhoicas/dte-migrator/internal/infrastructure/odoo"
	infraxlsx "github.com/jhoicas/dte-migrator/internal/infrastructure/xlsx"
)

var purchaseFile string

var purchaseCmd = &cobra.Command{
	Use:   "purchase-orders",
	Short: "Migra el libro de órdenes de compra",
	Long: `Procesa el libro de órdenes de compra. A diferencia de los DTEs aquí no se
crea nada que falte: una orden cuyo proveedor o cualquiera de sus productos
no exista en el destino se omite completa.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		if err := a.cfg.Validate(); err != nil {
			return err
		}

		path := purchaseFile
		if path == "" {
			path = a.cfg.Data.PurchaseFile
		}
		orders, err := infraxlsx.ReadPurchaseOrders(path)
		if err != nil {
			return err
		}
		a.log.Info().Str("file", path).Int("orders", len(orders)).Msg("procesando órdenes de compra")

		pipeline := migration.NewPurchasePipeline(
			infraodoo.NewPartnerService(a.client),
			infraodoo.NewProductService(a.client),
			infraodoo.NewPurchaseService(a.client),
			a.tables,
			migration.PurchaseConfig{
				UserID:   a.cfg.Deployment.PurchaseUserID,
				Throttle: a.cfg.Deployment.PurchaseThrottle,
			},
			a.log,
		)
		pipeline.Run(cmd.Context(), orders)
		return nil
	},
}

func init() {
	purchaseCmd.Flags().StringVar(&purchaseFile, "file", "", "libro de órdenes de compra (por defecto DATA_PURCHASE_FILE)")
}
