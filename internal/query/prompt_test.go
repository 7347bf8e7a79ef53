package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrompt_ShowAllProperties(t *testing.T) {
	parsed, err := ParsePrompt("devices", "show all properties of spine01")
	require.NoError(t, err)
	require.Len(t, parsed.Filters, 1)
	assert.Equal(t, "name", parsed.Filters[0].Token)
	assert.Equal(t, []string{"spine01"}, parsed.Filters[0].Values)
	assert.True(t, parsed.AllBlocks)
}

func TestParsePrompt_ShowAllPropertiesOfDevice(t *testing.T) {
	parsed, err := ParsePrompt("devices", "show all properties of device router1")
	require.NoError(t, err)
	require.Len(t, parsed.Filters, 1)
	assert.Equal(t, "name", parsed.Filters[0].Token)
	assert.Equal(t, []string{"router1"}, parsed.Filters[0].Values)
	assert.True(t, parsed.AllBlocks)
}

func TestParsePrompt_ShowDevice(t *testing.T) {
	parsed, err := ParsePrompt("devices", "show device router1")
	require.NoError(t, err)
	require.Len(t, parsed.Filters, 1)
	assert.Equal(t, "name", parsed.Filters[0].Token)
	assert.False(t, parsed.AllBlocks)
}

func TestParsePrompt_Contains(t *testing.T) {
	parsed, err := ParsePrompt("devices", "devices with name contains router")
	require.NoError(t, err)
	require.Len(t, parsed.Filters, 1)
	assert.Equal(t, "name__ic", parsed.Filters[0].Token)
	assert.Equal(t, []string{"router"}, parsed.Filters[0].Values)
}

func TestParsePrompt_StartsWith(t *testing.T) {
	parsed, err := ParsePrompt("devices", "devices with hostname starts with core")
	require.NoError(t, err)
	require.Len(t, parsed.Filters, 1)
	assert.Equal(t, "hostname__isw", parsed.Filters[0].Token)
	assert.Equal(t, []string{"core"}, parsed.Filters[0].Values)
}

func TestParsePrompt_EndsWith(t *testing.T) {
	parsed, err := ParsePrompt("devices", "devices with name ends with 01")
	require.NoError(t, err)
	assert.Equal(t, "name__iew", parsed.Filters[0].Token)
}

func TestParsePrompt_DevicesInLocation(t *testing.T) {
	parsed, err := ParsePrompt("devices", "show all devices in location datacenter1")
	require.NoError(t, err)
	require.Len(t, parsed.Filters, 1)
	assert.Equal(t, "location", parsed.Filters[0].Token)
	assert.Equal(t, []string{"datacenter1"}, parsed.Filters[0].Values)
	assert.Contains(t, parsed.Outputs, "location")
}

func TestParsePrompt_DevicesWithRole(t *testing.T) {
	parsed, err := ParsePrompt("devices", "devices with role firewall")
	require.NoError(t, err)
	assert.Equal(t, "role", parsed.Filters[0].Token)
	assert.Equal(t, []string{"firewall"}, parsed.Filters[0].Values)
}

func TestParsePrompt_GenericFieldValue(t *testing.T) {
	parsed, err := ParsePrompt("devices", "devices with platform ios")
	require.NoError(t, err)
	assert.Equal(t, "platform", parsed.Filters[0].Token)
	assert.Equal(t, []string{"ios"}, parsed.Filters[0].Values)
}

func TestParsePrompt_CaseAndWhitespaceNormalised(t *testing.T) {
	parsed, err := ParsePrompt("devices", "  Show   Device   ROUTER1  ")
	require.NoError(t, err)
	assert.Equal(t, []string{"router1"}, parsed.Filters[0].Values)
}

func TestParsePrompt_FirstMatchWins(t *testing.T) {
	// "show all properties of X" also matches the generic "show F V"
	// template; the specific one must win because it is listed first.
	parsed, err := ParsePrompt("devices", "show all properties of spine01")
	require.NoError(t, err)
	assert.True(t, parsed.AllBlocks)
	assert.Equal(t, "name", parsed.Filters[0].Token)
}

func TestParsePrompt_Unparsable(t *testing.T) {
	_, err := ParsePrompt("devices", "hello world how are you")
	require.Error(t, err)

	var promptErr *UnparsablePromptError
	require.True(t, errors.As(err, &promptErr))
	assert.Equal(t, "devices", promptErr.Resource)
}

func TestParsePrompt_ShowAllWithoutScopeIsUnparsable(t *testing.T) {
	// A query must always be scoped; a bare "show all devices" has no
	// filter to bind.
	_, err := ParsePrompt("devices", "show all devices")
	var promptErr *UnparsablePromptError
	require.True(t, errors.As(err, &promptErr))
}

func TestParsePrompt_Empty(t *testing.T) {
	_, err := ParsePrompt("devices", "   ")
	var promptErr *UnparsablePromptError
	require.True(t, errors.As(err, &promptErr))
}

func TestParsePrompt_UnknownResource(t *testing.T) {
	_, err := ParsePrompt("widgets", "show widget w1")
	var resErr *UnknownResourceError
	require.True(t, errors.As(err, &resErr))
	assert.Equal(t, "widgets", resErr.Resource)
}

func TestParsePrompt_Locations(t *testing.T) {
	parsed, err := ParsePrompt("locations", "show location datacenter1")
	require.NoError(t, err)
	assert.Equal(t, "name", parsed.Filters[0].Token)
	assert.Equal(t, []string{"datacenter1"}, parsed.Filters[0].Values)

	parsed, err = ParsePrompt("locations", "locations with status active")
	require.NoError(t, err)
	assert.Equal(t, "status", parsed.Filters[0].Token)
	assert.Equal(t, []string{"active"}, parsed.Filters[0].Values)

	parsed, err = ParsePrompt("locations", "locations in tenant companya")
	require.NoError(t, err)
	assert.Equal(t, "tenant", parsed.Filters[0].Token)
}

func TestParsePrompt_IPAddresses(t *testing.T) {
	parsed, err := ParsePrompt("ip_addresses", "show ip address 192.168.1.1")
	require.NoError(t, err)
	assert.Equal(t, "address", parsed.Filters[0].Token)
	assert.Equal(t, []string{"192.168.1.1"}, parsed.Filters[0].Values)

	parsed, err = ParsePrompt("ip_addresses", "ip addresses with dns_name contains server")
	require.NoError(t, err)
	assert.Equal(t, "dns_name__ic", parsed.Filters[0].Token)
	assert.Equal(t, []string{"server"}, parsed.Filters[0].Values)

	parsed, err = ParsePrompt("ip_addresses", "show all properties of 10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "address", parsed.Filters[0].Token)
	assert.True(t, parsed.AllBlocks)
}

func TestParsePrompt_Prefixes(t *testing.T) {
	parsed, err := ParsePrompt("prefixes", "show prefix 192.168.1.0/24")
	require.NoError(t, err)
	assert.Equal(t, "prefix", parsed.Filters[0].Token)
	assert.Equal(t, []string{"192.168.1.0/24"}, parsed.Filters[0].Values)

	parsed, err = ParsePrompt("prefixes", "prefixes within 10.0.0.0/8")
	require.NoError(t, err)
	assert.Equal(t, "within_include", parsed.Filters[0].Token)
	assert.Equal(t, []string{"10.0.0.0/8"}, parsed.Filters[0].Values)

	parsed, err = ParsePrompt("prefixes", "prefixes with status active")
	require.NoError(t, err)
	assert.Equal(t, "status", parsed.Filters[0].Token)
}

func TestParsePrompt_Interfaces(t *testing.T) {
	parsed, err := ParsePrompt("interfaces", "show interface gigabitethernet1/0/1")
	require.NoError(t, err)
	assert.Equal(t, "name", parsed.Filters[0].Token)
	assert.Equal(t, []string{"gigabitethernet1/0/1"}, parsed.Filters[0].Values)

	parsed, err = ParsePrompt("interfaces", "interfaces on router1")
	require.NoError(t, err)
	require.Len(t, parsed.Filters, 1)
	assert.Equal(t, "device", parsed.Filters[0].Token)
	assert.Equal(t, []string{"router1"}, parsed.Filters[0].Values)
	assert.Contains(t, parsed.Outputs, "device")

	parsed, err = ParsePrompt("interfaces", "interfaces with name contains uplink")
	require.NoError(t, err)
	assert.Equal(t, "name__ic", parsed.Filters[0].Token)
}

func TestParsePrompt_ActiveInterfacesBindEnabledTrue(t *testing.T) {
	parsed, err := ParsePrompt("interfaces", "active interfaces on router1")
	require.NoError(t, err)
	require.Len(t, parsed.Filters, 2)
	assert.Equal(t, "enabled", parsed.Filters[0].Token)
	assert.Equal(t, []string{"true"}, parsed.Filters[0].Values)
	assert.Equal(t, "device", parsed.Filters[1].Token)
	assert.Equal(t, []string{"router1"}, parsed.Filters[1].Values)
}

func TestParsePrompt_DisabledInterfacesWithoutDevice(t *testing.T) {
	// The device clause is optional; without it the phrase still scopes
	// the query by enabled state.
	parsed, err := ParsePrompt("interfaces", "show disabled interfaces")
	require.NoError(t, err)
	require.Len(t, parsed.Filters, 1)
	assert.Equal(t, "enabled", parsed.Filters[0].Token)
	assert.Equal(t, []string{"false"}, parsed.Filters[0].Values)
}

func TestParsePrompt_DeviceTypes(t *testing.T) {
	parsed, err := ParsePrompt("device_types", "show device type c9300-48p")
	require.NoError(t, err)
	assert.Equal(t, "model", parsed.Filters[0].Token)
	assert.Equal(t, []string{"c9300-48p"}, parsed.Filters[0].Values)

	parsed, err = ParsePrompt("device_types", "device types with model contains cisco")
	require.NoError(t, err)
	assert.Equal(t, "model__ic", parsed.Filters[0].Token)

	parsed, err = ParsePrompt("device_types", "device types with vendor cisco")
	require.NoError(t, err)
	assert.Equal(t, "vendor", parsed.Filters[0].Token)
}
