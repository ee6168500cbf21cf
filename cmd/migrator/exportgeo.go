package main

import (
	"github.com/spf13/cobra"

	infraxlsx "github.com/jhoicas/dte-migrator/internal/infrastructure/xlsx"
)

var exportGeoCmd = &cobra.Command{
	Use:   "export-geo",
	Short: "Reconstruye y exporta el catálogo consolidado de comunas y ciudades",
	Long: `Escanea todos los libros de lote configurados, fusiona sus hojas Communes y
Cities (gana el primer id visto) y escribe el archivo consolidado que las
corridas siguientes cargan directo en vez de volver a escanear.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if err := a.registry.Initialize(ctx); err != nil {
			return err
		}
		a.registry.Export(ctx, infraxlsx.NewCatalogWriter(a.cfg.Data.GeoCacheFile))
		return nil
	},
}
