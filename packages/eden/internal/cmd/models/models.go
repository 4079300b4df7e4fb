// Package models は models.yaml のモデル定義を表示するコマンドを実装する
package models

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/yacchi/eden-cli/internal/manifest"
	"github.com/yacchi/eden-cli/internal/ui"
	"github.com/yacchi/eden-cli/packages/eden/internal/cmdutil"
)

// ModelsCmd は定義済み AI モデルとサービス設定を一覧するコマンド
var ModelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the AI models and service defaults from models.yaml",
	Long: `List the models declared under ai_models.available and the per-service
default model assignments from models.yaml in the app directory.

Examples:
  eden models
  eden models -o json --jq '.models[].id'`,
	RunE: runModels,
}

type modelJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Provider    string `json:"provider,omitempty"`
}

type serviceJSON struct {
	Name         string `json:"name"`
	DefaultModel string `json:"default_model"`
}

type modelsJSON struct {
	Models   []modelJSON   `json:"models"`
	Services []serviceJSON `json:"services"`
}

func runModels(c *cobra.Command, _ []string) error {
	cfg, err := cmdutil.GetConfig(c)
	if err != nil {
		return err
	}

	dir := cmdutil.AppDir(cfg)
	m, err := manifest.LoadModels(dir)
	if err != nil {
		return err
	}

	out := modelsJSON{}
	for _, id := range m.AvailableModelIDs() {
		model := m.AIModels.Available[id]
		out.Models = append(out.Models, modelJSON{
			ID:          id,
			Name:        model.Name,
			Description: model.Description,
			Provider:    model.Provider,
		})
	}
	serviceNames := make([]string, 0, len(m.Services))
	for name := range m.Services {
		serviceNames = append(serviceNames, name)
	}
	sort.Strings(serviceNames)
	for _, name := range serviceNames {
		out.Services = append(out.Services, serviceJSON{
			Name:         name,
			DefaultModel: m.Services[name].DefaultModel,
		})
	}

	if cmdutil.WantJSON(cfg) {
		return cmdutil.OutputJSONToStdout(out, cmdutil.JSONOptions(c))
	}

	w := c.OutOrStdout()
	if len(out.Models) == 0 && len(out.Services) == 0 {
		fmt.Fprintf(w, "No models defined (%s not found or empty).\n", manifest.ModelsPath(dir))
		return nil
	}

	if len(out.Models) > 0 {
		table := ui.NewTable("ID", "NAME", "PROVIDER", "DESCRIPTION")
		for _, model := range out.Models {
			table.AddRow(model.ID, model.Name, model.Provider, model.Description)
		}
		table.Render(w)
	}
	if len(out.Services) > 0 {
		fmt.Fprintln(w)
		table := ui.NewTable("SERVICE", "DEFAULT MODEL")
		for _, svc := range out.Services {
			table.AddRow(svc.Name, svc.DefaultModel)
		}
		table.Render(w)
	}
	return nil
}
