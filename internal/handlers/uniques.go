package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/feral-file/ff-uniques-indexer/internal/decoder"
	"github.com/feral-file/ff-uniques-indexer/internal/domain"
	"github.com/feral-file/ff-uniques-indexer/internal/store"
	"github.com/feral-file/ff-uniques-indexer/internal/store/schema"
	"github.com/feral-file/ff-uniques-indexer/internal/types"
)

func classCreated(ctx context.Context, hc *Context, e decoder.ClassCreated) error {
	if !e.Owner.Valid() {
		hc.invalidAddress(ctx, "owner")
		return nil
	}

	class, err := hc.Cache.GetOrCreateUniqueClass(ctx, e.ClassID)
	if err != nil {
		return err
	}
	owner, err := hc.Cache.GetOrCreateAccount(ctx, e.Owner)
	if err != nil {
		return err
	}
	hc.Cache.Stage(owner)
	if e.Creator.Valid() {
		creator, err := hc.Cache.GetOrCreateAccount(ctx, e.Creator)
		if err != nil {
			return err
		}
		hc.Cache.Stage(creator)
	}

	class.Owner = e.Owner.Ptr()
	class.Creator = e.Creator.Ptr()
	class.Admin = e.Creator.Ptr()
	class.Issuer = e.Creator.Ptr()
	class.Freezer = e.Creator.Ptr()
	timestamp := hc.Block.Timestamp
	class.BlockTimestamp = &timestamp
	hc.transition(ctx, &class.Status, domain.StatusActive, "unique class "+class.ID)

	activity := hc.newActivity(domain.TransferTypeCreated, class.ID, nil)
	activity.To = e.Owner.Ptr()

	hc.Cache.Stage(class, activity)
	return nil
}

func classForceCreated(ctx context.Context, hc *Context, e decoder.ClassForceCreated) error {
	if !e.Owner.Valid() {
		hc.invalidAddress(ctx, "owner")
		return nil
	}

	class, err := hc.Cache.GetOrCreateUniqueClass(ctx, e.ClassID)
	if err != nil {
		return err
	}
	owner, err := hc.Cache.GetOrCreateAccount(ctx, e.Owner)
	if err != nil {
		return err
	}

	class.Owner = e.Owner.Ptr()
	timestamp := hc.Block.Timestamp
	class.BlockTimestamp = &timestamp
	hc.transition(ctx, &class.Status, domain.StatusActive, "unique class "+class.ID)

	activity := hc.newActivity(domain.TransferTypeForceCreated, class.ID, nil)
	activity.To = e.Owner.Ptr()

	hc.Cache.Stage(owner, class, activity)
	return nil
}

// updateClass applies fn to an existing class and records an activity row of the given type
func updateClass(ctx context.Context, hc *Context, classID uint32, transferType domain.TransferType, fn func(*schema.UniqueClass, *schema.ActivityEvent)) error {
	class, err := hc.Cache.GetUniqueClass(ctx, classID)
	if err != nil {
		return err
	}

	activity := hc.newActivity(transferType, class.ID, nil)
	fn(class, activity)

	hc.Cache.Stage(class, activity)
	return nil
}

func classDestroyed(ctx context.Context, hc *Context, e decoder.ClassDestroyed) error {
	class, err := hc.Cache.GetUniqueClass(ctx, e.ClassID)
	if err != nil {
		return err
	}
	instances, err := hc.Cache.InstancesOfClass(ctx, class.ID)
	if err != nil {
		return err
	}

	hc.transition(ctx, &class.Status, domain.StatusDestroyed, "unique class "+class.ID)
	for _, instance := range instances {
		hc.transition(ctx, &instance.Status, domain.StatusDestroyed, "unique instance "+instance.ID)
		hc.Cache.Stage(instance)
	}

	hc.Cache.Stage(class, hc.newActivity(domain.TransferTypeDestroyed, class.ID, nil))
	return nil
}

func classFrozen(ctx context.Context, hc *Context, e decoder.ClassFrozen) error {
	return updateClass(ctx, hc, e.ClassID, domain.TransferTypeFreeze, func(class *schema.UniqueClass, _ *schema.ActivityEvent) {
		hc.transition(ctx, &class.Status, domain.StatusFrozen, "unique class "+class.ID)
	})
}

func classThawed(ctx context.Context, hc *Context, e decoder.ClassThawed) error {
	return updateClass(ctx, hc, e.ClassID, domain.TransferTypeThaw, func(class *schema.UniqueClass, _ *schema.ActivityEvent) {
		hc.transition(ctx, &class.Status, domain.StatusActive, "unique class "+class.ID)
	})
}

// frozenStatus is the status a metadata update leaves behind
func frozenStatus(isFrozen bool) domain.Status {
	if isFrozen {
		return domain.StatusFrozen
	}
	return domain.StatusActive
}

func classMetadataSet(ctx context.Context, hc *Context, e decoder.ClassMetadataSet) error {
	return updateClass(ctx, hc, e.ClassID, domain.TransferTypeMetadataSet, func(class *schema.UniqueClass, activity *schema.ActivityEvent) {
		class.Metadata = types.StringPtr(e.Data)
		hc.transition(ctx, &class.Status, frozenStatus(e.IsFrozen), "unique class "+class.ID)
		activity.Meta = types.StringPtr(e.Data)
	})
}

func classMetadataCleared(ctx context.Context, hc *Context, e decoder.ClassMetadataCleared) error {
	return updateClass(ctx, hc, e.ClassID, domain.TransferTypeMetadataClear, func(class *schema.UniqueClass, _ *schema.ActivityEvent) {
		class.Metadata = nil
	})
}

func classTeamChanged(ctx context.Context, hc *Context, e decoder.ClassTeamChanged) error {
	return updateClass(ctx, hc, e.ClassID, domain.TransferTypeTeamChanged, func(class *schema.UniqueClass, _ *schema.ActivityEvent) {
		class.Issuer = e.Issuer.Ptr()
		class.Admin = e.Admin.Ptr()
		class.Freezer = e.Freezer.Ptr()
	})
}

func classOwnerChanged(ctx context.Context, hc *Context, e decoder.ClassOwnerChanged) error {
	if !e.NewOwner.Valid() {
		hc.invalidAddress(ctx, "newOwner")
		return nil
	}

	owner, err := hc.Cache.GetOrCreateAccount(ctx, e.NewOwner)
	if err != nil {
		return err
	}
	hc.Cache.Stage(owner)

	return updateClass(ctx, hc, e.ClassID, domain.TransferTypeOwnerChanged, func(class *schema.UniqueClass, activity *schema.ActivityEvent) {
		activity.From = class.Owner
		activity.To = e.NewOwner.Ptr()
		class.Owner = e.NewOwner.Ptr()
	})
}

func classMaxSupplySet(ctx context.Context, hc *Context, e decoder.ClassMaxSupplySet) error {
	return updateClass(ctx, hc, e.ClassID, domain.TransferTypeMaxSupplySet, func(class *schema.UniqueClass, activity *schema.ActivityEvent) {
		class.MaxSupply = types.Uint32Ptr(e.MaxSupply)
		activity.Meta = types.StringPtr(fmt.Sprintf("%d", e.MaxSupply))
	})
}

func instanceIssued(ctx context.Context, hc *Context, e decoder.InstanceIssued) error {
	if !e.Owner.Valid() {
		hc.invalidAddress(ctx, "owner")
		return nil
	}

	if _, err := hc.Cache.GetUniqueClass(ctx, e.ClassID); err != nil {
		return err
	}
	instance, err := hc.Cache.GetOrCreateUniqueInstance(ctx, e.ClassID, e.InstanceID)
	if err != nil {
		return err
	}
	owner, err := hc.Cache.GetOrCreateAccount(ctx, e.Owner)
	if err != nil {
		return err
	}

	instance.OwnerID = e.Owner.Ptr()
	instance.Price = types.NewBigInt(0)
	mintedAt := hc.Block.Timestamp
	instance.MintedAt = &mintedAt
	hc.transition(ctx, &instance.Status, domain.StatusActive, "unique instance "+instance.ID)

	activity := hc.instanceActivity(domain.TransferTypeMint, instance)
	activity.To = e.Owner.Ptr()

	hc.Cache.Stage(owner, instance, activity, accountSide(activity, owner, domain.DirectionTo))
	return nil
}

func instanceTransferred(ctx context.Context, hc *Context, e decoder.InstanceTransferred) error {
	if !e.From.Valid() || !e.To.Valid() {
		hc.invalidAddress(ctx, "from", "to")
		return nil
	}

	instance, err := hc.Cache.GetUniqueInstance(ctx, e.ClassID, e.InstanceID)
	if err != nil {
		return err
	}
	from, err := hc.Cache.GetOrCreateAccount(ctx, e.From)
	if err != nil {
		return err
	}
	to, err := hc.Cache.GetOrCreateAccount(ctx, e.To)
	if err != nil {
		return err
	}

	instance.OwnerID = e.To.Ptr()
	instance.Price = types.NewBigInt(0)
	if instance.Status == domain.StatusListed {
		instance.Status = domain.StatusActive
	}

	activity := hc.instanceActivity(domain.TransferTypeRegular, instance)
	activity.From = e.From.Ptr()
	activity.To = e.To.Ptr()

	hc.Cache.Stage(from, to, instance, activity,
		accountSide(activity, from, domain.DirectionFrom),
		accountSide(activity, to, domain.DirectionTo))
	return nil
}

func instanceBurned(ctx context.Context, hc *Context, e decoder.InstanceBurned) error {
	if !e.Owner.Valid() {
		hc.invalidAddress(ctx, "owner")
		return nil
	}

	instance, err := hc.Cache.GetUniqueInstance(ctx, e.ClassID, e.InstanceID)
	if err != nil {
		return err
	}
	owner, err := hc.Cache.GetOrCreateAccount(ctx, e.Owner)
	if err != nil {
		return err
	}

	instance.Price = types.NewBigInt(0)
	hc.transition(ctx, &instance.Status, domain.StatusDestroyed, "unique instance "+instance.ID)

	activity := hc.instanceActivity(domain.TransferTypeBurn, instance)
	activity.From = e.Owner.Ptr()

	hc.Cache.Stage(owner, instance, activity, accountSide(activity, owner, domain.DirectionFrom))
	return nil
}

// updateInstance applies fn to an existing instance and records an activity row of the given type
func updateInstance(ctx context.Context, hc *Context, classID, instanceID uint32, transferType domain.TransferType, fn func(*schema.UniqueInstance, *schema.ActivityEvent)) error {
	instance, err := hc.Cache.GetUniqueInstance(ctx, classID, instanceID)
	if err != nil {
		return err
	}

	activity := hc.instanceActivity(transferType, instance)
	fn(instance, activity)

	hc.Cache.Stage(instance, activity)
	return nil
}

func instanceFrozen(ctx context.Context, hc *Context, e decoder.InstanceFrozen) error {
	return updateInstance(ctx, hc, e.ClassID, e.InstanceID, domain.TransferTypeFreeze, func(instance *schema.UniqueInstance, _ *schema.ActivityEvent) {
		hc.transition(ctx, &instance.Status, domain.StatusFrozen, "unique instance "+instance.ID)
	})
}

func instanceThawed(ctx context.Context, hc *Context, e decoder.InstanceThawed) error {
	return updateInstance(ctx, hc, e.ClassID, e.InstanceID, domain.TransferTypeThaw, func(instance *schema.UniqueInstance, _ *schema.ActivityEvent) {
		hc.transition(ctx, &instance.Status, domain.StatusActive, "unique instance "+instance.ID)
	})
}

// skipMissingInstance turns a missing instance into a recorded skip
func skipMissingInstance(ctx context.Context, hc *Context, err error) error {
	if errors.Is(err, domain.ErrMissingParent) {
		hc.Anomaly(ctx, AnomalyMissingInstance, "event skipped: %v", err)
		return nil
	}
	return err
}

func instanceMetadataSet(ctx context.Context, hc *Context, e decoder.InstanceMetadataSet) error {
	err := updateInstance(ctx, hc, e.ClassID, e.InstanceID, domain.TransferTypeMetadataSet, func(instance *schema.UniqueInstance, activity *schema.ActivityEvent) {
		instance.Metadata = types.StringPtr(e.Data)
		hc.transition(ctx, &instance.Status, frozenStatus(e.IsFrozen), "unique instance "+instance.ID)
		activity.Meta = types.StringPtr(e.Data)
	})
	return skipMissingInstance(ctx, hc, err)
}

func instanceMetadataCleared(ctx context.Context, hc *Context, e decoder.InstanceMetadataCleared) error {
	err := updateInstance(ctx, hc, e.ClassID, e.InstanceID, domain.TransferTypeMetadataClear, func(instance *schema.UniqueInstance, _ *schema.ActivityEvent) {
		instance.Metadata = nil
	})
	return skipMissingInstance(ctx, hc, err)
}

func attributeSet(ctx context.Context, hc *Context, e decoder.AttributeSet) error {
	target, err := hc.Cache.ClassOrInstance(ctx, e.ClassID, e.InstanceID)
	if err != nil {
		return err
	}

	meta, err := json.Marshal(schema.Attribute{Key: e.Key, Value: e.Value})
	if err != nil {
		return fmt.Errorf("failed to encode attribute: %w", err)
	}

	var activity *schema.ActivityEvent
	err = target.Match(
		func(class *schema.UniqueClass) error {
			class.Attributes = schema.SetAttribute(class.Attributes, e.Key, e.Value)
			activity = hc.newActivity(domain.TransferTypeAttributeSet, class.ID, nil)
			hc.Cache.Stage(class)
			return nil
		},
		func(instance *schema.UniqueInstance) error {
			instance.Attributes = schema.SetAttribute(instance.Attributes, e.Key, e.Value)
			activity = hc.instanceActivity(domain.TransferTypeAttributeSet, instance)
			hc.Cache.Stage(instance)
			return nil
		})
	if err != nil {
		return err
	}

	activity.Meta = types.StringPtr(string(meta))
	hc.Cache.Stage(activity)
	return nil
}

func attributeCleared(ctx context.Context, hc *Context, e decoder.AttributeCleared) error {
	target, err := hc.Cache.ClassOrInstance(ctx, e.ClassID, e.InstanceID)
	if err != nil {
		return err
	}

	var activity *schema.ActivityEvent
	err = target.Match(
		func(class *schema.UniqueClass) error {
			class.Attributes = schema.ClearAttribute(class.Attributes, e.Key)
			activity = hc.newActivity(domain.TransferTypeAttributeClear, class.ID, nil)
			hc.Cache.Stage(class)
			return nil
		},
		func(instance *schema.UniqueInstance) error {
			instance.Attributes = schema.ClearAttribute(instance.Attributes, e.Key)
			activity = hc.instanceActivity(domain.TransferTypeAttributeClear, instance)
			hc.Cache.Stage(instance)
			return nil
		})
	if err != nil {
		return err
	}

	activity.Meta = types.StringPtr(e.Key)
	hc.Cache.Stage(activity)
	return nil
}

func itemPriceSet(ctx context.Context, hc *Context, e decoder.ItemPriceSet) error {
	return updateInstance(ctx, hc, e.ClassID, e.InstanceID, domain.TransferTypePriceSet, func(instance *schema.UniqueInstance, activity *schema.ActivityEvent) {
		instance.Price = amount(e.Price)
		hc.transition(ctx, &instance.Status, domain.StatusListed, "unique instance "+instance.ID)
		activity.From = instance.OwnerID
		activity.To = e.WhitelistedBuyer.Ptr()
		activity.Price = amountPtr(e.Price)
	})
}

func itemPriceRemoved(ctx context.Context, hc *Context, e decoder.ItemPriceRemoved) error {
	return updateInstance(ctx, hc, e.ClassID, e.InstanceID, domain.TransferTypePriceRemoved, func(instance *schema.UniqueInstance, activity *schema.ActivityEvent) {
		instance.Price = types.NewBigInt(0)
		hc.transition(ctx, &instance.Status, domain.StatusActive, "unique instance "+instance.ID)
		activity.From = instance.OwnerID
	})
}

// itemBought settles a sale onto the transfer row emitted earlier in the same block
func itemBought(ctx context.Context, hc *Context, e decoder.ItemBought) error {
	if !e.Seller.Valid() || !e.Buyer.Valid() {
		hc.invalidAddress(ctx, "seller", "buyer")
		return nil
	}

	instance, err := hc.Cache.GetUniqueInstance(ctx, e.ClassID, e.InstanceID)
	if err != nil {
		return err
	}

	filter := store.ActivityFilter{
		InstanceID:  instance.ID,
		From:        e.Seller.String(),
		To:          e.Buyer.String(),
		BlockNumber: hc.Block.Height,
		Types:       []domain.TransferType{domain.TransferTypeRegular, domain.TransferTypeBought},
	}
	activity, err := hc.Cache.FindLatestActivity(ctx, filter)
	if err != nil {
		return err
	}
	if activity == nil {
		return fmt.Errorf("%w: no transfer of %s from %s to %s in block %d",
			domain.ErrLedgerRowNotFound, instance.ID, e.Seller, e.Buyer, hc.Block.Height)
	}

	instance.Price = types.NewBigInt(0)
	hc.transition(ctx, &instance.Status, domain.StatusActive, "unique instance "+instance.ID)

	activity.Type = domain.TransferTypeBought
	activity.Price = amountPtr(e.Price)

	hc.Cache.Stage(instance, activity)
	return nil
}
