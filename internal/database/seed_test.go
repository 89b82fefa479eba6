package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRentTiers(t *testing.T) {
	assert.Equal(t, int64(7000), rentFor(1))
	assert.Equal(t, int64(6500), rentFor(2))
	assert.Equal(t, int64(6000), rentFor(3))
	assert.Equal(t, int64(5500), rentFor(4))
	assert.Equal(t, int64(5500), rentFor(5))
}

func TestRoomNumbersPerFloor(t *testing.T) {
	// The base catalog maps onto every floor by swapping the floor digit.
	assert.Equal(t, "101", roomNumber(1, 101))
	assert.Equal(t, "314", roomNumber(3, 114))
	assert.Equal(t, "607", roomNumber(6, 107))
	assert.Equal(t, "203", roomNumber(2, 103))
}

func TestBaseCatalogShape(t *testing.T) {
	assert.Len(t, baseRooms, 14)
	for base, info := range baseRooms {
		assert.GreaterOrEqual(t, base, 101)
		assert.LessOrEqual(t, base, 114)
		assert.GreaterOrEqual(t, info.capacity, uint32(1))
		assert.LessOrEqual(t, info.capacity, uint32(5))
	}
}
