package domain

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestVisit_ClientColumnsAreUnbounded(t *testing.T) {
	s, err := schema.Parse(&Visit{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	for _, column := range []string{"ip_address", "user_agent", "browser", "os"} {
		field := s.LookUpField(column)
		require.NotNil(t, field, column)
		assert.Equal(t, "text", field.TagSettings["TYPE"], column)
		assert.Zero(t, field.Size, column)
	}
}
