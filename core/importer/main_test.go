package importer

import (
	"os"
	"testing"

	"github.com/dartalib/backend/core"
)

func TestMain(m *testing.M) {
	core.Conf = &core.Config{AppName: "dartalib", SecretKey: "secret", TestMode: true}
	core.InitValidation()
	os.Exit(m.Run())
}
