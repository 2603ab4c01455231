package xkbset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/osinstall/kbdsetup/pkg/xkbregistry"
)

const testRegistryXML = `<?xml version="1.0" encoding="UTF-8"?>
<xkbConfigRegistry version="1.1">
  <layoutList>
    <layout>
      <configItem>
        <name>us</name>
        <description>English (US)</description>
      </configItem>
      <variantList/>
    </layout>
    <layout>
      <configItem>
        <name>cz</name>
        <description>Czech</description>
      </configItem>
      <variantList>
        <variant>
          <configItem>
            <name>qwerty</name>
            <description>Czech (QWERTY)</description>
          </configItem>
        </variant>
      </variantList>
    </layout>
  </layoutList>
  <optionList>
    <group allowMultipleSelection="true">
      <configItem><name>grp</name></configItem>
      <option>
        <configItem>
          <name>grp:alt_shift_toggle</name>
          <description>Alt+Shift</description>
        </configItem>
      </option>
    </group>
  </optionList>
</xkbConfigRegistry>
`

func testRegistry(t *testing.T) *xkbregistry.Registry {
	t.Helper()

	path := filepath.Join(t.TempDir(), "evdev.xml")
	require.NoError(t, os.WriteFile(path, []byte(testRegistryXML), 0644))

	registry, err := xkbregistry.Load(path)
	require.NoError(t, err)
	return registry
}
