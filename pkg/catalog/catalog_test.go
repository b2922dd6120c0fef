package catalog

import (
	"bytes"
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/twinkeys/pkg/keys"
	"github.com/ssargent/twinkeys/pkg/structure"
)

func rawKey(b byte, n int) string {
	return keys.EncodeKey(bytes.Repeat([]byte{b}, n))
}

var (
	modelID  = rawKey(0x0a, keys.ModelIDSize)
	modelURN = keys.ModelURN(modelID)
	otherID  = rawKey(0xff, keys.ModelIDSize)
	roomKey  = rawKey(0xa1, keys.ElementIDSize)
	levelKey = rawKey(0xc1, keys.ElementIDSize)
	assetKey = rawKey(0xe1, keys.ElementIDSize)
)

func openTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCatalog_ElementCRUD(t *testing.T) {
	c := openTestCatalog(t)

	full, err := keys.ToFullKey(roomKey, false)
	require.NoError(t, err)

	stored, err := c.PutElement(modelURN, structure.Element{Key: full, Name: "Room 1", Flags: keys.ElementFlagsRoom})
	require.NoError(t, err)
	assert.Equal(t, roomKey, stored.Key, "full keys are stored as short keys")

	got, err := c.GetElement(modelID, roomKey)
	require.NoError(t, err)
	assert.Equal(t, stored, got)

	got, err = c.GetElement(modelURN, full)
	require.NoError(t, err)
	assert.Equal(t, "Room 1", got.Name)

	_, err = c.PutElement(modelID, structure.Element{Key: roomKey, Name: "Room 1b", Flags: keys.ElementFlagsRoom})
	require.NoError(t, err)
	got, err = c.GetElement(modelID, roomKey)
	require.NoError(t, err)
	assert.Equal(t, "Room 1b", got.Name)

	require.NoError(t, c.DeleteElement(modelID, roomKey))
	_, err = c.GetElement(modelID, roomKey)
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)

	err = c.DeleteElement(modelID, roomKey)
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestCatalog_InvalidKeys(t *testing.T) {
	c := openTestCatalog(t)

	_, err := c.PutElement(modelID, structure.Element{Key: "%%%"})
	assert.True(t, errors.Is(err, keys.ErrMalformedBase64), "got %v", err)

	_, err = c.PutElement(roomKey, structure.Element{Key: roomKey})
	assert.True(t, errors.Is(err, keys.ErrInvalidKeyLength), "got %v", err)

	_, err = c.GetElement(modelID, modelID)
	assert.True(t, errors.Is(err, keys.ErrInvalidKeyLength), "got %v", err)

	_, err = c.ListElements("not-a-model")
	assert.Error(t, err)
}

func TestCatalog_ListElements(t *testing.T) {
	c := openTestCatalog(t)

	for _, e := range []structure.Element{
		{Key: roomKey, Name: "Room", Flags: keys.ElementFlagsRoom},
		{Key: levelKey, Name: "Level", Flags: keys.ElementFlagsLevel},
		{Key: assetKey, Name: "Asset"},
	} {
		_, err := c.PutElement(modelID, e)
		require.NoError(t, err)
	}
	_, err := c.PutElement(otherID, structure.Element{Key: assetKey, Name: "Other"})
	require.NoError(t, err)

	list, err := c.ListElements(modelID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Room", list[0].Name)
	assert.Equal(t, "Level", list[1].Name)
	assert.Equal(t, "Asset", list[2].Name)

	list, err = c.ListElements(otherID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Other", list[0].Name)

	assets, err := c.Assets(context.Background(), modelURN)
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, assetKey, assets[0].Key)

	found, err := c.Elements(context.Background(), modelURN, []string{levelKey, rawKey(0x77, keys.ElementIDSize), roomKey})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Level", found[0].Name)
	assert.Equal(t, "Room", found[1].Name)

	stats, err := c.Stats()
	require.NoError(t, err)
	assert.Equal(t, Stats{Models: 2, Elements: 4}, stats)
}

func TestCatalog_FullKeyLevelRef(t *testing.T) {
	c := openTestCatalog(t)

	fullLevel, err := keys.ToFullKey(levelKey, true)
	require.NoError(t, err)
	rooms, err := keys.EncodeShortKeyArray([]string{roomKey}, keys.ArrayOptions{})
	require.NoError(t, err)

	stored, err := c.PutElement(modelID, structure.Element{Key: roomKey, Name: "R1", Flags: keys.ElementFlagsRoom, Level: fullLevel})
	require.NoError(t, err)
	assert.Equal(t, levelKey, stored.Level)
	for _, e := range []structure.Element{
		{Key: levelKey, Name: "L1", Flags: keys.ElementFlagsLevel},
		{Key: assetKey, Name: "A1", Rooms: rooms},
	} {
		_, err := c.PutElement(modelID, e)
		require.NoError(t, err)
	}

	got, err := c.GetElement(modelID, roomKey)
	require.NoError(t, err)
	assert.Equal(t, levelKey, got.Level)

	s, err := structure.Load(context.Background(), c, keys.FacilityURNPrefix+otherID, []string{modelURN})
	require.NoError(t, err)
	assert.Equal(t, "L1\n  R1\n    A1\n", s.Tree())

	_, err = c.PutElement(modelID, structure.Element{Key: roomKey, Flags: keys.ElementFlagsRoom, Level: modelID})
	assert.True(t, errors.Is(err, keys.ErrInvalidKeyLength), "got %v", err)
}

func TestCatalog_LevelsAndRooms(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()

	elevation := 3.5
	otherLevel := rawKey(0xc2, keys.ElementIDSize)
	for _, e := range []structure.Element{
		{Key: levelKey, Name: "L1", Flags: keys.ElementFlagsLevel, Elevation: &elevation},
		{Key: otherLevel, Name: "L2", Flags: keys.ElementFlagsLevel},
		{Key: roomKey, Name: "R1", Flags: keys.ElementFlagsRoom, Level: levelKey},
		{Key: rawKey(0xa2, keys.ElementIDSize), Name: "R2", Flags: keys.ElementFlagsRoom, Level: otherLevel},
		{Key: assetKey, Name: "A1"},
	} {
		_, err := c.PutElement(modelID, e)
		require.NoError(t, err)
	}

	levels, err := c.Levels(ctx, modelURN)
	require.NoError(t, err)
	require.Len(t, levels, 2)
	assert.Equal(t, "L1", levels[0].Name)
	require.NotNil(t, levels[0].Elevation)
	assert.InDelta(t, 3.5, *levels[0].Elevation, 1e-9)
	assert.Nil(t, levels[1].Elevation)

	rooms, err := c.Rooms(ctx, modelURN, "")
	require.NoError(t, err)
	assert.Len(t, rooms, 2)

	fullLevel, err := keys.ToFullKey(levelKey, false)
	require.NoError(t, err)
	rooms, err = c.Rooms(ctx, modelURN, fullLevel)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "R1", rooms[0].Name)

	_, err = c.Rooms(ctx, modelURN, "%%%")
	assert.True(t, errors.Is(err, keys.ErrMalformedBase64), "got %v", err)
}

func TestCatalog_Snapshots(t *testing.T) {
	c := openTestCatalog(t)

	rooms, err := keys.EncodeShortKeyArray([]string{roomKey}, keys.ArrayOptions{})
	require.NoError(t, err)
	for _, e := range []structure.Element{
		{Key: roomKey, Name: "Room", Flags: keys.ElementFlagsRoom, Level: levelKey},
		{Key: levelKey, Name: "Level", Flags: keys.ElementFlagsLevel},
		{Key: assetKey, Name: "Asset", Rooms: rooms},
	} {
		_, err := c.PutElement(modelID, e)
		require.NoError(t, err)
	}

	facilityURN := keys.FacilityURNPrefix + rawKey(0x01, keys.ModelIDSize)
	s, err := structure.Load(context.Background(), c, facilityURN, []string{modelURN})
	require.NoError(t, err)
	assert.Equal(t, "Level\n  Room\n    Asset\n", s.Tree())

	id, err := c.SaveSnapshot(s.Snapshot())
	require.NoError(t, err)

	snap, err := c.LoadSnapshot(id)
	require.NoError(t, err)
	assert.Equal(t, s.Snapshot(), snap)

	second, err := c.SaveSnapshot(structure.Snapshot{FacilityURN: facilityURN})
	require.NoError(t, err)

	infos, err := c.ListSnapshots()
	require.NoError(t, err)
	require.Len(t, infos, 2)
	ids := []string{infos[0].ID, infos[1].ID}
	assert.ElementsMatch(t, []string{id, second}, ids)
	for _, info := range infos {
		if info.ID == id {
			assert.Equal(t, 1, info.Levels)
			assert.Equal(t, 1, info.Rooms)
			assert.Equal(t, 1, info.Assets)
		}
		assert.Equal(t, facilityURN, info.FacilityURN)
		assert.False(t, info.CreatedAt.IsZero())
	}

	stats, err := c.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Snapshots)
}

func TestCatalog_LoadSnapshotErrors(t *testing.T) {
	c := openTestCatalog(t)

	_, err := c.LoadSnapshot("bogus")
	assert.True(t, errors.Is(err, keys.ErrMalformedKey), "got %v", err)

	_, err = c.LoadSnapshot("0ujsswThIGTUYm2K8FjOOfXtY1K")
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestCatalog_Reopen(t *testing.T) {
	dir := t.TempDir()

	c, err := Open(dir)
	require.NoError(t, err)
	_, err = c.PutElement(modelID, structure.Element{Key: assetKey, Name: "Asset"})
	require.NoError(t, err)
	require.NoError(t, c.Close())

	c, err = Open(dir)
	require.NoError(t, err)
	defer c.Close()

	got, err := c.GetElement(modelID, assetKey)
	require.NoError(t, err)
	assert.Equal(t, "Asset", got.Name)
}

func TestPrefixUpperBound(t *testing.T) {
	assert.Equal(t, []byte{'e', 0x0b}, prefixUpperBound([]byte{'e', 0x0a}))
	assert.Equal(t, []byte{'f'}, prefixUpperBound([]byte{'e', 0xff, 0xff}))
	assert.Nil(t, prefixUpperBound([]byte{0xff}))
}
