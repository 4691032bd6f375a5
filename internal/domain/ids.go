package domain

import (
	"strconv"
	"strings"
)

// AssetBalanceID returns the id of an account's holding of an asset
func AssetBalanceID(assetID string, accountID Address) string {
	return assetID + ID_SEPARATOR + accountID.String()
}

// ItemID returns the id of an NFT instance within its class
func ItemID(classID uint32, instanceID uint32) string {
	return ClassID(classID) + ID_SEPARATOR + strconv.FormatUint(uint64(instanceID), 10)
}

// ClassID returns the id of an NFT class
func ClassID(classID uint32) string {
	return strconv.FormatUint(uint64(classID), 10)
}

// AssetID returns the id of a fungible asset
func AssetID(assetID uint32) string {
	return strconv.FormatUint(uint64(assetID), 10)
}

// SideID returns the id of a per-side ledger row derived from an event id
func SideID(eventID string, direction Direction) string {
	if direction == DirectionFrom {
		return eventID + SIDE_SUFFIX_FROM
	}
	return eventID + SIDE_SUFFIX_TO
}

// ParseItemID splits an instance id into class id and inner instance id
func ParseItemID(id string) (uint32, uint32, bool) {
	classPart, instancePart, ok := strings.Cut(id, ID_SEPARATOR)
	if !ok {
		return 0, 0, false
	}
	classID, err := strconv.ParseUint(classPart, 10, 32)
	if err != nil {
		return 0, 0, false
	}
	instanceID, err := strconv.ParseUint(instancePart, 10, 32)
	if err != nil {
		return 0, 0, false
	}
	return uint32(classID), uint32(instanceID), true
}
