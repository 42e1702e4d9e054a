package topology_test

import (
	"strings"
	"testing"

	"github.com/devantler-tech/shipmate/pkg/topology"
	"github.com/stretchr/testify/require"
)

const canonicalSample = `54.168.1.10 192.168.1.10

54.168.1.11
54.168.1.12
54.168.1.13
`

func TestParse_EmptyInput(t *testing.T) {
	t.Parallel()

	topo, err := topology.Parse(strings.NewReader(""))
	require.NoError(t, err)

	require.Empty(t, topo.Masters)
	require.Empty(t, topo.Slaves)
	require.Equal(t, 0, topo.HostCount())
}

func TestParse_CanonicalSample(t *testing.T) {
	t.Parallel()

	topo, err := topology.Parse(strings.NewReader(canonicalSample))
	require.NoError(t, err)

	require.Equal(t, []topology.MasterEntry{
		{External: "54.168.1.10", Internal: "192.168.1.10"},
	}, topo.Masters)
	require.Equal(t, []string{"54.168.1.11", "54.168.1.12", "54.168.1.13"}, topo.Slaves)
}

func TestParse_CommentsAndSurroundingBlankLines(t *testing.T) {
	t.Parallel()

	decorated := "\n\n# cluster layout\n" +
		"54.168.1.10 192.168.1.10\n" +
		"\n" +
		"# workers\n" +
		"54.168.1.11\n" +
		"54.168.1.12\n" +
		"54.168.1.13\n" +
		"\n\n"

	topo, err := topology.Parse(strings.NewReader(decorated))
	require.NoError(t, err)

	plain, err := topology.Parse(strings.NewReader(canonicalSample))
	require.NoError(t, err)

	require.Equal(t, plain, topo)
}

func TestParse_BlankLinesBeforeFirstMasterAreNoOps(t *testing.T) {
	t.Parallel()

	input := "\n\n\n54.168.1.10 192.168.1.10\n\n54.168.1.11\n"

	topo, err := topology.Parse(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, topo.Masters, 1)
	require.Equal(t, []string{"54.168.1.11"}, topo.Slaves)
}

func TestParse_SingleFieldLineBeforeSeparatorIsAMaster(t *testing.T) {
	t.Parallel()

	// A line with no internal address that appears before any blank-line
	// separator still lands in the master block. This is a consequence of the
	// two-mode state machine, not a heuristic.
	input := "54.168.1.11\n\n54.168.1.12\n"

	topo, err := topology.Parse(strings.NewReader(input))
	require.NoError(t, err)

	require.Equal(t, []topology.MasterEntry{{External: "54.168.1.11"}}, topo.Masters)
	require.Equal(t, []string{"54.168.1.12"}, topo.Slaves)
}

func TestParse_RepeatedBlankLinesAfterSwitchStayInSlaveBlock(t *testing.T) {
	t.Parallel()

	input := "54.168.1.10 192.168.1.10\n\n54.168.1.11\n\n\n54.168.1.12\n"

	topo, err := topology.Parse(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, topo.Masters, 1)
	require.Equal(t, []string{"54.168.1.11", "54.168.1.12"}, topo.Slaves)
}

func TestParse_TrailingTokensAreDataNotComments(t *testing.T) {
	t.Parallel()

	input := "54.168.1.10 192.168.1.10 # primary\n\n54.168.1.11 # worker\n"

	topo, err := topology.Parse(strings.NewReader(input))
	require.NoError(t, err)

	require.Equal(t, "192.168.1.10", topo.Masters[0].Internal)
	require.Equal(t, []string{"54.168.1.11"}, topo.Slaves)
}

func TestParse_MasterLineWithOnlyTrailingComment(t *testing.T) {
	t.Parallel()

	// Inline comments are not stripped, so the '#' token becomes the internal
	// address. The format has no inline comments; this pins that down.
	input := "54.168.1.10 # primary\n"

	topo, err := topology.Parse(strings.NewReader(input))
	require.NoError(t, err)

	require.Equal(t, []topology.MasterEntry{
		{External: "54.168.1.10", Internal: "#"},
	}, topo.Masters)
}

func TestParse_DuplicateHostsAreKept(t *testing.T) {
	t.Parallel()

	input := "54.168.1.10 192.168.1.10\n\n54.168.1.11\n54.168.1.11\n"

	topo, err := topology.Parse(strings.NewReader(input))
	require.NoError(t, err)

	require.Equal(t, []string{"54.168.1.11", "54.168.1.11"}, topo.Slaves)
	require.Equal(t, 3, topo.HostCount())
}

func TestParse_MultiMasterInternalAddresses(t *testing.T) {
	t.Parallel()

	input := "54.168.1.10 192.168.1.10\n54.168.1.20 192.168.1.20\n\n54.168.1.11\n"

	topo, err := topology.Parse(strings.NewReader(input))
	require.NoError(t, err)

	require.Equal(t, []string{"192.168.1.10", "192.168.1.20"}, topo.InternalAddresses())
}
