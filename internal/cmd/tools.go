package cmd

import (
	"fmt"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/Junto-Platforms/itglue-mcp-server/internal/output"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools the server registers",
	Long:  "List every MCP tool with its mode. No IT Glue credentials are needed.",
	Args:  cobra.NoArgs,
	RunE:  runTools,
}

func init() {
	rootCmd.AddCommand(toolsCmd)

	toolsCmd.Flags().StringP("output", "o", output.FormatTable, "output format: table, json, yaml")
}

// toolInfo is the json and yaml form of one tool.
type toolInfo struct {
	Name        string `json:"name" yaml:"name"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Mode        string `json:"mode" yaml:"mode"`
	Description string `json:"description" yaml:"description"`
}

func runTools(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("output")
	switch format {
	case output.FormatTable, output.FormatJSON, output.FormatYAML:
	default:
		return fmt.Errorf("unknown output format %q: use table, json or yaml", format)
	}

	c, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	cs, closeSession, err := connectInMemory(cmd.Context(), catalogServer(newLogger(cmd, c)))
	if err != nil {
		return err
	}
	defer closeSession()

	res, err := cs.ListTools(cmd.Context(), &mcp.ListToolsParams{})
	if err != nil {
		return fmt.Errorf("list tools: %w", err)
	}

	infos := make([]toolInfo, 0, len(res.Tools))
	for _, tool := range res.Tools {
		info := toolInfo{Name: tool.Name, Mode: toolMode(tool), Description: tool.Description}
		if tool.Annotations != nil {
			info.Title = tool.Annotations.Title
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })

	p := printer(cmd)
	switch format {
	case output.FormatJSON:
		return p.JSON(infos)
	case output.FormatYAML:
		return p.YAML(infos)
	}

	table := output.NewTable([]string{"Name", "Mode", "Description"})
	for _, info := range infos {
		table.AddRow([]string{info.Name, info.Mode, firstSentence(info.Description)})
	}
	p.Table(table)
	p.Info("\n%d tools", len(infos))
	return nil
}
