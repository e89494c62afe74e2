package wordml

import (
	"fmt"

	"github.com/dgallion1/docxlist/internal/numbering"
)

// MultiLevelHybrid is the w:multiLevelType of every definition built here.
const MultiLevelHybrid = "hybridMultilevel"

// AbstractNum is a w:abstractNum: the level formats shared by all lists
// referencing it.
type AbstractNum struct {
	ID             int
	MultiLevelType string
	Levels         []numbering.Level
}

// Num is a w:num instance; paragraphs reference its ID.
type Num struct {
	ID            int
	AbstractNumID int
}

// Numbering holds a document's numbering part. Definitions are only ever
// appended.
type Numbering struct {
	abstracts []*AbstractNum
	nums      []*Num

	reserved       map[int]bool
	nextAbstractID int
	nextNumID      int
}

// NewNumbering returns an empty numbering part. Num ids start at 1, 0 means
// "not numbered" in paragraph properties.
func NewNumbering() *Numbering {
	return &Numbering{reserved: make(map[int]bool), nextNumID: 1}
}

// ReserveAbstractID marks an abstract id as taken by content not created
// through DefineNumbering.
func (n *Numbering) ReserveAbstractID(id int) {
	n.reserved[id] = true
}

// AbstractNum returns the abstract definition with the given id.
func (n *Numbering) AbstractNum(id int) *AbstractNum {
	for _, a := range n.abstracts {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// Num returns the instance with the given id.
func (n *Numbering) Num(id int) *Num {
	for _, num := range n.nums {
		if num.ID == id {
			return num
		}
	}
	return nil
}

// Abstracts returns the abstract definitions in creation order.
func (n *Numbering) Abstracts() []*AbstractNum {
	return n.abstracts
}

// Nums returns the instances in creation order.
func (n *Numbering) Nums() []*Num {
	return n.nums
}

// Empty reports whether there is nothing to write.
func (n *Numbering) Empty() bool {
	return len(n.abstracts) == 0
}

func (n *Numbering) abstractTaken(id int) bool {
	return n.reserved[id] || n.AbstractNum(id) != nil
}

// DefineNumbering stores a new hybrid multi-level definition and an instance
// of it, returning the instance id.
func (n *Numbering) DefineNumbering(levels []numbering.Level) (int, error) {
	if len(levels) == 0 {
		return 0, fmt.Errorf("define numbering: no levels")
	}
	for i, l := range levels {
		if l.Index != i {
			return 0, fmt.Errorf("define numbering: level %d has index %d", i, l.Index)
		}
	}

	id := n.nextAbstractID
	for n.abstractTaken(id) {
		id++
	}
	n.nextAbstractID = id + 1

	n.abstracts = append(n.abstracts, &AbstractNum{
		ID:             id,
		MultiLevelType: MultiLevelHybrid,
		Levels:         append([]numbering.Level(nil), levels...),
	})

	num := &Num{ID: n.nextNumID, AbstractNumID: id}
	n.nextNumID++
	n.nums = append(n.nums, num)
	return num.ID, nil
}
