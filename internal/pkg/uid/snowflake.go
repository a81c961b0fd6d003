package uid

import (
	"crypto/rand"
	"math/big"
	"os"
	"strconv"

	"github.com/bwmarrin/snowflake"
)

// Snowflake generates time-sortable int64 IDs using Twitter's snowflake
// layout.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake creates a generator whose node number comes from the NODE_ID
// environment variable, falling back to a random node when unset. Random
// fallback is fine for single-instance deployments; multi-instance setups
// must pin NODE_ID to avoid ID collisions.
func NewSnowflake() (*Snowflake, error) {
	var nodeID int64

	if raw := os.Getenv("NODE_ID"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		nodeID = parsed
	} else {
		n, err := rand.Int(rand.Reader, big.NewInt(1024))
		if err != nil {
			return nil, err
		}
		nodeID = n.Int64()
	}

	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node}, nil
}

// Generate returns a new snowflake ID.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
