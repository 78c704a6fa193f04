package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers MCP prompts for common scheduling workflows.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("plan_group").
		Description("Guide for placing a new recurring group in a tutor's week without clashing with existing bookings.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return &mcp.PromptResult{
				Description: "Group Planning Session",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: `Help me place a new weekly group. Please:

1. Read the tutor's current groups from the academia://templates resource
2. Check the tutor's free time with availability.list (actor_id = tutor)
3. Propose slots and confirm them with availability.fit

For the proposed slots:
- Save them with template.save and report any conflicts it returns
- Only use force when I confirm a clash is acceptable
- Once saved, run availability.match for interested students to see who can join

Weekday names may be given in English or Spanish (see academia://vocabulary).`,
						},
					},
				},
			}, nil
		})

	srv.Prompt("weekly_availability").
		Description("Walk a student or tutor through filling in the weekly availability grid.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return &mcp.PromptResult{
				Description: "Weekly Availability",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: `Help me fill in my weekly availability. Please:

1. Show what I have declared so far using the academia://availability resource
2. Ask me day by day which hours I am free
3. Record each free hour with availability.toggle, or a longer stretch with availability.add

When we are done:
- Summarise my week per day
- Run availability.match to list the groups I could join`,
						},
					},
				},
			}, nil
		})

	return nil
}
