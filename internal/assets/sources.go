package assets

import (
	"fmt"

	"github.com/assetops/ragline/internal/domain/source"
	"github.com/assetops/ragline/internal/registry"
)

// RegisterSources populates the registry with the asset management
// catalog. Called once at startup; descriptors are immutable afterwards.
func RegisterSources(reg *registry.Registry) error {
	descriptors := []struct {
		name, entity, table string
		fields, queryable   []string
		relations           map[string]source.Relation
		description         string
	}{
		{
			name: "assets", entity: "Assets", table: "assets",
			fields: []string{
				"id", "assetNo", "assetName", "assetDescription", "manufacturer",
				"acquisitionCost", "currentQuantity", "acquisitionDate", "warrantyDate",
				"purchaseOrderNo", "supplier", "acquisitionType", "invoiceNo",
				"isVerified", "isApproved", "isDraft", "verifiedAt", "approvedAt",
			},
			queryable: []string{
				"assetNo", "assetName", "isVerified", "isApproved", "isDraft",
				"acquisitionType", "manufacturer",
			},
			description: "Master asset records with verification status.",
		},
		{
			name: "inventories", entity: "AssetInventory", table: "assets_inventory",
			fields: []string{
				"id", "inventoryNo", "qrCode", "barCode", "rfidTag", "location",
				"status", "isDraft",
				"custodian.id", "custodian.firstName", "custodian.middleName",
				"custodian.lastName", "custodian.employeeId", "custodian.email",
				"custodian.position", "custodian.department", "custodian.contactNumber",
				"asset.id", "asset.assetNo", "asset.assetName", "asset.assetDescription",
			},
			queryable: []string{
				"inventoryNo", "status", "location", "isDraft", "qrCode", "barCode", "rfidTag",
			},
			relations: map[string]source.Relation{
				"custodian": {Table: "employees", LocalKey: "custodian_id", RefKey: "id"},
				"asset":     {Table: "assets", LocalKey: "asset_id", RefKey: "id"},
			},
			description: `Individual inventory items with full custodian and asset details.
        Use this table when user asks about:
        - Specific inventory numbers (ASSET-XXXX-INV-X)
        - Who is in charge / custodian queries
        - Current holder of an item
        - Item location and status`,
		},
		{
			name: "employees", entity: "Employee", table: "employees",
			fields: []string{
				"id", "employeeId", "firstName", "middleName", "lastName", "email",
				"contactNumber", "position", "department", "isVerified",
				"issuedAsset.id", "issuedAsset.inventoryNo", "issuedAsset.status",
				"issuedAsset.location",
				"issuedAsset.asset.assetNo", "issuedAsset.asset.assetName",
				"issuedAsset.asset.assetDescription",
			},
			queryable: []string{
				"employeeId", "firstName", "lastName", "email", "position", "department",
				"issuedAsset.inventoryNo", "issuedAsset.status",
				"issuedAsset.asset.assetName",
			},
			relations: map[string]source.Relation{
				"issuedAsset": {Table: "assets_inventory", LocalKey: "id", RefKey: "custodian_id"},
			},
			description: `Employee records with related issued assets.
    Use this table when the user asks about:
    - Employee info
    - Assets assigned to a specific employee
    - Contact info or position/department`,
		},
		{
			name: "transactions", entity: "AssetTransactions", table: "asset_transactions",
			fields: []string{
				"id", "transactionNo", "parNo", "transactionType", "fromStatus",
				"toStatus", "approvalStatus", "transactionDate", "approvedAt",
				"rejectedAt", "remarks", "reason", "isActive",
			},
			queryable: []string{
				"transactionNo", "parNo", "transactionType", "approvalStatus",
				"fromStatus", "toStatus", "isActive",
			},
			description: "Transaction history for asset movements.",
		},
		{
			name: "depreciation", entity: "AssetDepreciation", table: "asset_depreciation",
			fields: []string{
				"id", "usefulLife", "usefulLifeUnit", "salvageValue",
				"firstDepreciationDate", "lastDepreciationDate", "frequency",
				"depreciationMethod", "isVerified", "verifiedAt",
			},
			queryable: []string{
				"depreciationMethod", "frequency", "isVerified", "usefulLifeUnit",
			},
			description: "Depreciation configuration per asset.",
		},
		{
			name: "depreciation_records", entity: "DepreciationRecord", table: "depreciation_record",
			fields: []string{
				"id", "year", "month", "depreciationDate", "depreciationAmount",
				"netBookValue", "accumulatedDepreciation",
			},
			queryable:   []string{"year", "month"},
			description: "Monthly depreciation records.",
		},
	}

	for _, d := range descriptors {
		src, err := source.New(d.name, d.entity, d.table, d.fields, d.queryable, d.relations, d.description)
		if err != nil {
			return fmt.Errorf("register %s: %w", d.name, err)
		}
		reg.Register(src)
	}
	return nil
}
