package sqlite

// Schema for the asset management tables. Columns keep the camelCase
// names the source descriptors expose so generated SQL needs no mapping
// layer.
const schema = `
CREATE TABLE IF NOT EXISTS "employees" (
	"id"            INTEGER PRIMARY KEY AUTOINCREMENT,
	"employeeId"    TEXT UNIQUE,
	"firstName"     TEXT NOT NULL,
	"middleName"    TEXT,
	"lastName"      TEXT NOT NULL,
	"email"         TEXT,
	"contactNumber" TEXT,
	"position"      TEXT,
	"department"    TEXT,
	"isVerified"    INTEGER NOT NULL DEFAULT 0,
	"createdAt"     TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
	"updatedAt"     TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
	"deletedAt"     TEXT
);

CREATE TABLE IF NOT EXISTS "assets" (
	"id"               INTEGER PRIMARY KEY AUTOINCREMENT,
	"assetNo"          TEXT UNIQUE,
	"assetName"        TEXT NOT NULL,
	"assetDescription" TEXT,
	"manufacturer"     TEXT,
	"acquisitionCost"  REAL,
	"currentQuantity"  INTEGER NOT NULL DEFAULT 0,
	"acquisitionDate"  TEXT,
	"warrantyDate"     TEXT,
	"purchaseOrderNo"  TEXT,
	"supplier"         TEXT,
	"acquisitionType"  TEXT,
	"invoiceNo"        TEXT,
	"isVerified"       INTEGER NOT NULL DEFAULT 0,
	"isApproved"       INTEGER NOT NULL DEFAULT 0,
	"isDraft"          INTEGER NOT NULL DEFAULT 1,
	"verifiedAt"       TEXT,
	"approvedAt"       TEXT,
	"createdAt"        TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
	"updatedAt"        TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
	"deletedAt"        TEXT
);

CREATE TABLE IF NOT EXISTS "assets_inventory" (
	"id"           INTEGER PRIMARY KEY AUTOINCREMENT,
	"inventoryNo"  TEXT UNIQUE,
	"qrCode"       TEXT,
	"barCode"      TEXT,
	"rfidTag"      TEXT,
	"location"     TEXT,
	"status"       TEXT NOT NULL DEFAULT 'Available',
	"isDraft"      INTEGER NOT NULL DEFAULT 0,
	"asset_id"     INTEGER REFERENCES "assets"("id"),
	"custodian_id" INTEGER REFERENCES "employees"("id"),
	"createdAt"    TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
	"updatedAt"    TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
	"deletedAt"    TEXT
);

CREATE TABLE IF NOT EXISTS "asset_transactions" (
	"id"              INTEGER PRIMARY KEY AUTOINCREMENT,
	"transactionNo"   TEXT UNIQUE,
	"parNo"           TEXT,
	"transactionType" TEXT NOT NULL,
	"fromStatus"      TEXT,
	"toStatus"        TEXT,
	"approvalStatus"  TEXT,
	"transactionDate" TEXT,
	"approvedAt"      TEXT,
	"rejectedAt"      TEXT,
	"remarks"         TEXT,
	"reason"          TEXT,
	"isActive"        INTEGER NOT NULL DEFAULT 1,
	"inventory_id"    INTEGER REFERENCES "assets_inventory"("id"),
	"createdAt"       TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
	"updatedAt"       TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
	"deletedAt"       TEXT
);

CREATE TABLE IF NOT EXISTS "asset_depreciation" (
	"id"                    INTEGER PRIMARY KEY AUTOINCREMENT,
	"usefulLife"            INTEGER,
	"usefulLifeUnit"        TEXT,
	"salvageValue"          REAL,
	"firstDepreciationDate" TEXT,
	"lastDepreciationDate"  TEXT,
	"frequency"             TEXT,
	"depreciationMethod"    TEXT,
	"isVerified"            INTEGER NOT NULL DEFAULT 0,
	"verifiedAt"            TEXT,
	"asset_id"              INTEGER REFERENCES "assets"("id"),
	"createdAt"             TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
	"updatedAt"             TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
	"deletedAt"             TEXT
);

CREATE TABLE IF NOT EXISTS "depreciation_record" (
	"id"                      INTEGER PRIMARY KEY AUTOINCREMENT,
	"year"                    INTEGER NOT NULL,
	"month"                   INTEGER NOT NULL,
	"depreciationDate"        TEXT,
	"depreciationAmount"      REAL,
	"netBookValue"            REAL,
	"accumulatedDepreciation" REAL,
	"depreciation_id"         INTEGER REFERENCES "asset_depreciation"("id"),
	"createdAt"               TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
	"updatedAt"               TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
	"deletedAt"               TEXT
);

CREATE INDEX IF NOT EXISTS "idx_inventory_status" ON "assets_inventory"("status");
CREATE INDEX IF NOT EXISTS "idx_inventory_custodian" ON "assets_inventory"("custodian_id");
CREATE INDEX IF NOT EXISTS "idx_assets_draft" ON "assets"("isDraft");
`
