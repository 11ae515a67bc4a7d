package utils

import (
	"context"
	"fmt"
	"sync"

	"github.com/nordverk/factora_backend/config"
	"gorm.io/gorm"
)

var seqMutex sync.Mutex

// GetYearSequence returns the next document sequence number for a
// company+year pair (redis-backed counter, bootstrapped from the stored max
// when the counter is cold). The serial loop re-checks uniqueness against the
// table so a stale redis counter skips forward instead of reissuing.
//
// table/column name a document table holding `company_id` and `sequence_no`,
// plus a year discriminator column.
func GetYearSequence(ctx context.Context, db *gorm.DB, companyId string, table string, year int) (int64, error) {
	// serialize within the process; redis INCR serializes across instances
	seqMutex.Lock()
	defer seqMutex.Unlock()

	cacheKey := fmt.Sprintf("%s-%s-%d_seq", companyId, table, year)
	var seqNo int64
	var err error

	for {
		seqNo, err = config.GetRedisCounter(ctx, cacheKey)
		if err != nil {
			return 0, err
		}
		// cold counter: bootstrap from the stored max
		if seqNo == 1 {
			var dbSeq *int64
			if err := db.WithContext(ctx).Table(table).Select("max(sequence_no)").
				Where("company_id = ? AND sequence_year = ?", companyId, year).
				Scan(&dbSeq).Error; err != nil {
				return 0, err
			}
			if dbSeq == nil {
				seqNo = 0
			} else {
				seqNo = *dbSeq
			}
			seqNo++
			if err := config.SetRedisObject(cacheKey, &seqNo, 0); err != nil {
				return 0, err
			}
		}
		// skip forward past any sequence number that already made it to the db
		var count int64
		if err := db.WithContext(ctx).Table(table).
			Where("company_id = ? AND sequence_year = ? AND sequence_no = ?", companyId, year, seqNo).
			Count(&count).Error; err != nil {
			return 0, err
		}
		if count == 0 {
			break
		}
	}
	return seqNo, nil
}
