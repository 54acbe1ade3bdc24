package mysql

const upsertRecordsPrefix = "INSERT INTO hotel_records\n  (row_no, brand, loyalty_program, region, country)\nVALUES "

const upsertRecordsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  brand           = VALUES(brand),\n" +
	"  loyalty_program = VALUES(loyalty_program),\n" +
	"  region          = VALUES(region),\n" +
	"  country         = VALUES(country)\n"

// Rows past the end of a shorter re-import.
const trimRecordsSQL = `DELETE FROM hotel_records WHERE row_no >= ?`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Dataset order matters: example brands are taken first-seen-first.
const listRecordsSQL = `
SELECT brand, loyalty_program, region, country
FROM hotel_records
ORDER BY row_no
`

const countRecordsSQL = `SELECT COUNT(*) FROM hotel_records`
