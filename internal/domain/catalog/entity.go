package catalog

import (
	"time"
)

// 目录维度实体：作者、类目、出版社
// 设计说明：三者都是简单的字典型聚合（创建+列表为主），
// 与Book通过join表（作者/类目）或外键（出版社）关联。

// Author 作者
type Author struct {
	ID        uint
	FirstName string
	LastName  string
	Biography string
	CreatedAt time.Time
}

// FullName 展示用全名
func (a *Author) FullName() string {
	if a.FirstName == "" {
		return a.LastName
	}
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// Genre 类目
type Genre struct {
	ID        uint
	Name      string
	CreatedAt time.Time
}

// Publisher 出版社
type Publisher struct {
	ID        uint
	Name      string
	Description string
	Website   string
	CreatedAt time.Time
}
