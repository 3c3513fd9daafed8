package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

var callCmd = &cobra.Command{
	Use:   "call <tool>",
	Short: "Invoke one tool and print its result",
	Long: `Invoke one tool against IT Glue through an in-process MCP session and
print the text it returns. Arguments are passed as a JSON object:

  itglue-mcp call itglue_list_organizations --args '{"name":"Acme"}'`,
	Args: cobra.ExactArgs(1),
	RunE: runCall,
}

var errToolFailed = errors.New("tool returned an error")

func init() {
	rootCmd.AddCommand(callCmd)

	callCmd.Flags().String("args", "{}", "tool arguments as a JSON object")
}

func runCall(cmd *cobra.Command, args []string) error {
	raw, _ := cmd.Flags().GetString("args")
	var arguments map[string]any
	if err := json.Unmarshal([]byte(raw), &arguments); err != nil {
		return fmt.Errorf("--args must be a JSON object: %w", err)
	}
	if arguments == nil {
		arguments = map[string]any{}
	}

	c, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}

	a, err := newApp(c, newLogger(cmd, c))
	if err != nil {
		return err
	}
	defer a.Close()

	cs, closeSession, err := connectInMemory(cmd.Context(), a.mcp)
	if err != nil {
		return err
	}
	defer closeSession()

	res, err := cs.CallTool(cmd.Context(), &mcp.CallToolParams{Name: args[0], Arguments: arguments})
	if err != nil {
		return fmt.Errorf("call %s: %w", args[0], err)
	}

	p := printer(cmd)
	for _, content := range res.Content {
		if text, ok := content.(*mcp.TextContent); ok {
			p.Text(text.Text)
		}
	}
	if res.IsError {
		return errToolFailed
	}
	return nil
}
