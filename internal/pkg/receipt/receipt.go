// Package receipt issues unique human-readable receipt numbers for
// transactions. Snowflake IDs are monotonic per node, so receipt numbers
// sort by issue time.
package receipt

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

type Generator struct {
	node *snowflake.Node
}

func NewGenerator(nodeID int64) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node: %w", err)
	}
	return &Generator{node: node}, nil
}

func (g *Generator) Next() string {
	return fmt.Sprintf("KRD-%s", g.node.Generate().Base36())
}
