package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/bienestar-api/internal/domain/authz"
)

func TestAllowlist_CoincidenciaExacta(t *testing.T) {
	al := authz.NewAllowlist(" Root@Bienestar.co ", "", "ops@bienestar.co")

	assert.Equal(t, 2, al.Len())
	assert.True(t, al.IsMasterAdmin("root@bienestar.co"))
	assert.True(t, al.IsMasterAdmin("ROOT@BIENESTAR.CO  "))
	assert.False(t, al.IsMasterAdmin("root@bienestar"), "sin prefijos")
	assert.False(t, al.IsMasterAdmin("xroot@bienestar.co"), "sin coincidencias parciales")
	assert.False(t, al.IsMasterAdmin(""))
}

func TestAllowlist_NilEsVacia(t *testing.T) {
	var al *authz.Allowlist
	assert.False(t, al.IsMasterAdmin("root@bienestar.co"))
	assert.Zero(t, al.Len())
}
