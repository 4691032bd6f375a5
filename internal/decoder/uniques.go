package decoder

import (
	"github.com/feral-file/ff-uniques-indexer/internal/domain"
)

// Field names follow the class/instance naming; payloads from V9230 on are read through renamedFields.
func registerUniques(d *Decoder) {
	d.register(domain.EventUniquesCreated, classicVersions,
		[]string{"class", "creator", "owner"},
		func(r *fieldReader) Event {
			return ClassCreated{
				ClassID: r.u32("class"),
				Creator: r.address("creator"),
				Owner:   r.address("owner"),
			}
		})

	d.register(domain.EventUniquesForceCreated, classicVersions,
		[]string{"class", "owner"},
		func(r *fieldReader) Event {
			return ClassForceCreated{ClassID: r.u32("class"), Owner: r.address("owner")}
		})

	d.register(domain.EventUniquesDestroyed, classicVersions,
		[]string{"class"},
		func(r *fieldReader) Event {
			return ClassDestroyed{ClassID: r.u32("class")}
		})

	d.register(domain.EventUniquesClassFrozen, classicVersions,
		[]string{"class"},
		func(r *fieldReader) Event {
			return ClassFrozen{ClassID: r.u32("class")}
		})

	d.register(domain.EventUniquesClassThawed, classicVersions,
		[]string{"class"},
		func(r *fieldReader) Event {
			return ClassThawed{ClassID: r.u32("class")}
		})

	d.register(domain.EventUniquesCollectionFrozen, renamedVersions,
		[]string{"class"},
		func(r *fieldReader) Event {
			return ClassFrozen{ClassID: r.u32("class"), Renamed: true}
		})

	d.register(domain.EventUniquesCollectionThawed, renamedVersions,
		[]string{"class"},
		func(r *fieldReader) Event {
			return ClassThawed{ClassID: r.u32("class"), Renamed: true}
		})

	d.register(domain.EventUniquesClassMetadataSet, preRenameVersions,
		[]string{"class", "data", "isFrozen"},
		func(r *fieldReader) Event {
			return ClassMetadataSet{
				ClassID:  r.u32("class"),
				Data:     r.bytes("data"),
				IsFrozen: r.boolean("isFrozen"),
			}
		})

	d.register(domain.EventUniquesCollectionMetadataSet, renamedVersions,
		[]string{"class", "data", "isFrozen"},
		func(r *fieldReader) Event {
			return ClassMetadataSet{
				ClassID:  r.u32("class"),
				Data:     r.bytes("data"),
				IsFrozen: r.boolean("isFrozen"),
				Renamed:  true,
			}
		})

	d.register(domain.EventUniquesClassMetadataCleared, preRenameVersions,
		[]string{"class"},
		func(r *fieldReader) Event {
			return ClassMetadataCleared{ClassID: r.u32("class")}
		})

	d.register(domain.EventUniquesCollectionMetadataCleared, renamedVersions,
		[]string{"class"},
		func(r *fieldReader) Event {
			return ClassMetadataCleared{ClassID: r.u32("class"), Renamed: true}
		})

	d.register(domain.EventUniquesTeamChanged, classicVersions,
		[]string{"class", "issuer", "admin", "freezer"},
		func(r *fieldReader) Event {
			return ClassTeamChanged{
				ClassID: r.u32("class"),
				Issuer:  r.address("issuer"),
				Admin:   r.address("admin"),
				Freezer: r.address("freezer"),
			}
		})

	d.register(domain.EventUniquesOwnerChanged, classicVersions,
		[]string{"class", "newOwner"},
		func(r *fieldReader) Event {
			return ClassOwnerChanged{ClassID: r.u32("class"), NewOwner: r.address("newOwner")}
		})

	d.register(domain.EventUniquesCollectionMaxSupplySet, renamedVersions,
		[]string{"class", "maxSupply"},
		func(r *fieldReader) Event {
			return ClassMaxSupplySet{ClassID: r.u32("class"), MaxSupply: r.u32("maxSupply")}
		})

	d.register(domain.EventUniquesIssued, classicVersions,
		[]string{"class", "instance", "owner"},
		func(r *fieldReader) Event {
			return InstanceIssued{
				ClassID:    r.u32("class"),
				InstanceID: r.u32("instance"),
				Owner:      r.address("owner"),
			}
		})

	d.register(domain.EventUniquesTransferred, classicVersions,
		[]string{"class", "instance", "from", "to"},
		func(r *fieldReader) Event {
			return InstanceTransferred{
				ClassID:    r.u32("class"),
				InstanceID: r.u32("instance"),
				From:       r.address("from"),
				To:         r.address("to"),
			}
		})

	d.register(domain.EventUniquesBurned, classicVersions,
		[]string{"class", "instance", "owner"},
		func(r *fieldReader) Event {
			return InstanceBurned{
				ClassID:    r.u32("class"),
				InstanceID: r.u32("instance"),
				Owner:      r.address("owner"),
			}
		})

	d.register(domain.EventUniquesFrozen, classicVersions,
		[]string{"class", "instance"},
		func(r *fieldReader) Event {
			return InstanceFrozen{ClassID: r.u32("class"), InstanceID: r.u32("instance")}
		})

	d.register(domain.EventUniquesThawed, classicVersions,
		[]string{"class", "instance"},
		func(r *fieldReader) Event {
			return InstanceThawed{ClassID: r.u32("class"), InstanceID: r.u32("instance")}
		})

	d.register(domain.EventUniquesMetadataSet, classicVersions,
		[]string{"class", "instance", "data", "isFrozen"},
		func(r *fieldReader) Event {
			return InstanceMetadataSet{
				ClassID:    r.u32("class"),
				InstanceID: r.u32("instance"),
				Data:       r.bytes("data"),
				IsFrozen:   r.boolean("isFrozen"),
			}
		})

	d.register(domain.EventUniquesMetadataCleared, classicVersions,
		[]string{"class", "instance"},
		func(r *fieldReader) Event {
			return InstanceMetadataCleared{ClassID: r.u32("class"), InstanceID: r.u32("instance")}
		})

	d.register(domain.EventUniquesAttributeSet, classicVersions,
		[]string{"class", "maybeInstance", "key", "value"},
		func(r *fieldReader) Event {
			return AttributeSet{
				ClassID:    r.u32("class"),
				InstanceID: r.optU32("maybeInstance"),
				Key:        r.bytes("key"),
				Value:      r.bytes("value"),
			}
		})

	d.register(domain.EventUniquesAttributeCleared, classicVersions,
		[]string{"class", "maybeInstance", "key"},
		func(r *fieldReader) Event {
			return AttributeCleared{
				ClassID:    r.u32("class"),
				InstanceID: r.optU32("maybeInstance"),
				Key:        r.bytes("key"),
			}
		})

	d.register(domain.EventUniquesItemPriceSet, marketVersions,
		[]string{"class", "instance", "price", "whitelistedBuyer"},
		func(r *fieldReader) Event {
			return ItemPriceSet{
				ClassID:          r.u32("class"),
				InstanceID:       r.u32("instance"),
				Price:            r.amount("price"),
				WhitelistedBuyer: r.optAddress("whitelistedBuyer"),
			}
		})

	d.register(domain.EventUniquesItemPriceRemoved, marketVersions,
		[]string{"class", "instance"},
		func(r *fieldReader) Event {
			return ItemPriceRemoved{ClassID: r.u32("class"), InstanceID: r.u32("instance")}
		})

	d.register(domain.EventUniquesItemBought, marketVersions,
		[]string{"class", "instance", "price", "seller", "buyer"},
		func(r *fieldReader) Event {
			return ItemBought{
				ClassID:    r.u32("class"),
				InstanceID: r.u32("instance"),
				Price:      r.amount("price"),
				Seller:     r.address("seller"),
				Buyer:      r.address("buyer"),
			}
		})
}
