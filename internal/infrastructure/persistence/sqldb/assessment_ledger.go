package sqldb

import (
	"context"
	stderrors "errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/turtacn/diabrisk/internal/domain/models"
	"github.com/turtacn/diabrisk/internal/domain/repository"
	"github.com/turtacn/diabrisk/pkg/logger"
)

const statsRowID = 1

// statsRowDBM is the single-row aggregate table.
type statsRowDBM struct {
	ID               int   `gorm:"primaryKey;autoIncrement:false"`
	TotalAssessments int64 `gorm:"not null;default:0"`
	SumOfScores      int64 `gorm:"not null;default:0"`
	UpdatedAt        time.Time
}

func (statsRowDBM) TableName() string {
	return "assessment_stats"
}

// historyRowDBM is one appended assessment.
type historyRowDBM struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	AssessedAt time.Time `gorm:"not null;index"`
	Score      int       `gorm:"not null"`
	BMI        float64   `gorm:"not null"`
	Risk       string    `gorm:"size:16;not null"`
}

func (historyRowDBM) TableName() string {
	return "assessment_history"
}

func (dbm *historyRowDBM) toDomain() (models.AssessmentRecord, error) {
	tier, err := models.ParseRiskTier(dbm.Risk)
	if err != nil {
		return models.AssessmentRecord{}, err
	}
	return models.AssessmentRecord{
		Timestamp: dbm.AssessedAt.Local(),
		Score:     dbm.Score,
		BMI:       dbm.BMI,
		Tier:      tier,
	}, nil
}

func historyFromDomain(r models.AssessmentRecord) *historyRowDBM {
	return &historyRowDBM{
		AssessedAt: r.Timestamp.Truncate(time.Second),
		Score:      r.Score,
		BMI:        models.RoundOneDecimal(r.BMI),
		Risk:       string(r.Tier),
	}
}

// CorruptRowFunc is told about every history row that could not be mapped back.
type CorruptRowFunc func(id uint64, err error)

var _ repository.AssessmentLedger = (*Ledger)(nil)

// Ledger stores the aggregate and the history in one database and commits both in one transaction.
type Ledger struct {
	conn      *DBConnection
	logger    logger.Logger
	onCorrupt CorruptRowFunc
}

// NewLedger migrates the schema and returns the ledger. onCorrupt may be nil.
func NewLedger(ctx context.Context, conn *DBConnection, log logger.Logger, onCorrupt CorruptRowFunc) (*Ledger, error) {
	db := conn.DB().WithContext(ctx)
	if err := db.AutoMigrate(&statsRowDBM{}, &historyRowDBM{}); err != nil {
		return nil, mapDBError(err)
	}
	// seed the aggregate row so commits are a plain UPDATE
	seed := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&statsRowDBM{ID: statsRowID, UpdatedAt: time.Now()})
	if seed.Error != nil {
		return nil, mapDBError(seed.Error)
	}
	return &Ledger{conn: conn, logger: log.WithComponent("sql_ledger"), onCorrupt: onCorrupt}, nil
}

var errStatsRowMissing = stderrors.New("assessment_stats row is missing")

// Commit increments the aggregate and inserts the history row in one transaction.
// The returned aggregate is read back inside that transaction.
func (l *Ledger) Commit(ctx context.Context, record models.AssessmentRecord) (models.AggregateStats, error) {
	now := time.Now()
	var row statsRowDBM
	err := l.conn.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&statsRowDBM{}).Where("id = ?", statsRowID).Updates(map[string]interface{}{
			"total_assessments": gorm.Expr("total_assessments + ?", 1),
			"sum_of_scores":     gorm.Expr("sum_of_scores + ?", record.Score),
			"updated_at":        now,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return errStatsRowMissing
		}
		if err := tx.Create(historyFromDomain(record)).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", statsRowID).Take(&row).Error
	})
	if err != nil {
		l.logger.Error(ctx, "Ledger commit rolled back", err, logger.Int("score", record.Score))
		return models.AggregateStats{}, mapDBError(err)
	}
	return models.AggregateStats{
		TotalAssessments: row.TotalAssessments,
		SumOfScores:      row.SumOfScores,
	}, nil
}

func (l *Ledger) Stats(ctx context.Context) (models.AggregateStats, error) {
	var rows []statsRowDBM
	if err := l.conn.DB().WithContext(ctx).Where("id = ?", statsRowID).Limit(1).Find(&rows).Error; err != nil {
		return models.AggregateStats{}, mapDBError(err)
	}
	if len(rows) == 0 {
		return models.AggregateStats{}, nil
	}
	return models.AggregateStats{
		TotalAssessments: rows[0].TotalAssessments,
		SumOfScores:      rows[0].SumOfScores,
	}, nil
}

// History returns up to limit records newest first; limit <= 0 returns all.
// Rows with an unknown tier are skipped and do not count toward limit.
func (l *Ledger) History(ctx context.Context, limit int) ([]models.AssessmentRecord, error) {
	db := l.conn.DB().WithContext(ctx)
	out := make([]models.AssessmentRecord, 0)

	var beforeID uint64
	for {
		want := 0
		if limit > 0 {
			want = limit - len(out)
		}
		q := db.Order("id DESC")
		if beforeID > 0 {
			q = q.Where("id < ?", beforeID)
		}
		if want > 0 {
			q = q.Limit(want)
		}

		var rows []historyRowDBM
		if err := q.Find(&rows).Error; err != nil {
			return nil, mapDBError(err)
		}
		for i := range rows {
			rec, err := rows[i].toDomain()
			if err != nil {
				l.logger.Warn(ctx, "Skipping corrupt history row", logger.Int64("id", int64(rows[i].ID)), logger.Err(err))
				if l.onCorrupt != nil {
					l.onCorrupt(rows[i].ID, err)
				}
				continue
			}
			out = append(out, rec)
		}

		if want == 0 || len(rows) < want || len(out) >= limit {
			return out, nil
		}
		beforeID = rows[len(rows)-1].ID
	}
}

func (l *Ledger) Backend() string {
	return string(l.conn.Driver())
}

func (l *Ledger) Ping(ctx context.Context) error {
	return l.conn.Ping(ctx)
}

func (l *Ledger) Close() error {
	return l.conn.Close()
}
