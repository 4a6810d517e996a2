package utilities

import (
	"os"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
)

// NewUserID generates the opaque, globally unique string identifier used as
// the primary key for user rows. Every other table uses a database-assigned
// sequential id.
func NewUserID() string {
	return ksuid.New().String()
}

// NewClaimID generates a snowflake ID string used to tag a batch of email
// queue entries claimed by a worker. The node ID is read from the
// SNOWFLAKE_NODE environment variable and defaults to 1.
func NewClaimID() string {
	nodeEnv := os.Getenv("SNOWFLAKE_NODE")
	if nodeEnv == "" {
		return NewClaimIDWithNode(1)
	}
	nodeID, err := strconv.ParseInt(nodeEnv, 10, 64)
	if err != nil {
		// fall back to a default node instead of failing the claim
		return NewClaimIDWithNode(1)
	}
	return NewClaimIDWithNode(nodeID)
}

// NewClaimIDWithNode generates a snowflake ID string using the provided node
// ID. If the node cannot be initialized it falls back to a KSUID string so a
// unique ID is always returned.
func NewClaimIDWithNode(nodeID int64) string {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return ksuid.New().String()
	}
	return node.Generate().String()
}
