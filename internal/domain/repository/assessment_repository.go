// Package repository 定义领域仓储接口
// 仓储接口遵循 DDD 原则，定义评估统计与历史记录的持久化契约
package repository

import (
	"context"

	"github.com/turtacn/diabrisk/internal/domain/models"
)

// StatsRepository 定义人群统计仓储接口
// 实现类：internal/infrastructure/persistence/file/stats_store.go 等
type StatsRepository interface {
	// Record 将一次评估分数累加到统计中
	// 参数：
	//   - ctx: 请求上下文
	//   - score: 本次评估总分
	// 返回：
	//   - models.AggregateStats: 累加后的统计
	//   - error: 写入失败时返回 ErrPersistence，统计保持不变
	Record(ctx context.Context, score int) (models.AggregateStats, error)

	// Read 读取当前统计；存储不存在时返回零值
	Read(ctx context.Context) (models.AggregateStats, error)
}

// HistoryRepository 定义评估历史仓储接口
// 历史记录只追加，不修改
type HistoryRepository interface {
	// Append 追加一条评估记录
	Append(ctx context.Context, record models.AssessmentRecord) error

	// List 按时间倒序返回最近的记录
	// 参数：
	//   - limit: 最大条数，<=0 表示全部
	// 无法解析的记录会被跳过
	List(ctx context.Context, limit int) ([]models.AssessmentRecord, error)
}

//go:generate mockery --name AssessmentLedger --output ../service/mocks --outpkg mocks --structname MockAssessmentLedger --filename ledger_mock.go

// AssessmentLedger 将统计与历史绑定为一个提交单元
// Commit 要么同时更新统计和历史，要么都不更新
type AssessmentLedger interface {
	// Commit 原子地记录分数并追加历史，返回本次提交后的统计
	// 成功返回后，调用方无需再读取统计即可生成报告
	Commit(ctx context.Context, record models.AssessmentRecord) (models.AggregateStats, error)

	// Stats 读取提交后的最新统计
	Stats(ctx context.Context) (models.AggregateStats, error)

	// History 按时间倒序返回最近的记录
	History(ctx context.Context, limit int) ([]models.AssessmentRecord, error)

	// Backend 返回存储后端名称，用于指标标签
	Backend() string

	// Ping 检查存储是否可用
	Ping(ctx context.Context) error

	// Close 释放底层资源
	Close() error
}
