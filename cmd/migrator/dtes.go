package main

import (
	"github.com/spf13/cobra"

	infraxlsx "github.com/jhoicas/dte-migrator/internal/infrastructure/xlsx"
)

var (
	dtesFrom string
	dtesTo   string
)

var dtesCmd = &cobra.Command{
	Use:   "dtes",
	Short: "Migra los libros de DTEs (facturas primero, notas de crédito después)",
	Long: `Procesa los libros de facturas y luego los de notas de crédito, en orden
cronológico por el periodo codificado en el nombre de archivo. Las facturas
van primero porque las notas de crédito referencian a su documento padre.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		if err := a.cfg.Validate(); err != nil {
			return err
		}
		ctx := cmd.Context()

		if err := a.registry.Initialize(ctx); err != nil {
			return err
		}
		pipeline, err := a.dtePipeline()
		if err != nil {
			return err
		}

		from, to := dtesFrom, dtesTo
		if from == "" {
			from = a.cfg.Data.DateRangeStart
		}
		if to == "" {
			to = a.cfg.Data.DateRangeEnd
		}

		for _, dirs := range [][]string{a.cfg.Data.InvoiceDirs, a.cfg.Data.CreditNoteDirs} {
			files, err := infraxlsx.ListBatchFiles(dirs, from, to)
			if err != nil {
				return err
			}
			for _, bf := range files {
				batch, err := infraxlsx.ReadBatch(bf.Path)
				if err != nil {
					// Un libro ilegible no aborta la corrida completa.
					a.log.Error().Err(err).Str("file", bf.Path).Msg("libro omitido")
					continue
				}
				a.log.Info().Str("file", bf.Path).Int("dtes", len(batch.DTEs)).Msg("procesando libro")
				pipeline.Run(ctx, batch)
			}
		}

		// Artefacto lateral de mejor esfuerzo para acelerar corridas futuras.
		a.registry.Export(ctx, infraxlsx.NewCatalogWriter(a.cfg.Data.GeoCacheFile))
		return nil
	},
}

func init() {
	dtesCmd.Flags().StringVar(&dtesFrom, "from", "", "periodo inicial YYYY-MM (por defecto DATE_RANGE_START)")
	dtesCmd.Flags().StringVar(&dtesTo, "to", "", "periodo final YYYY-MM (por defecto DATE_RANGE_END)")
}
