package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"

	repository "github.com/okian/gradebook/internal/adapters/repository"
	service "github.com/okian/gradebook/internal/app"
	"github.com/okian/gradebook/internal/domain/types"
	"github.com/okian/gradebook/pkg/logger"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func started(opts ...service.Option) *service.Service {
	svc := service.New(opts...)
	So(svc.Start(context.Background()), ShouldBeNil)
	return svc
}

func student(key int, marks ...int) types.StudentInput {
	in := types.StudentInput{Key: key, Name: "s"}
	m := make([]int, 4)
	copy(m, marks)
	in.Marks = types.Marks{DSA: m[0], OS: m[1], DBMS: m[2], CN: m[3]}
	return in
}

func entryKeys(entries []types.Entry) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.Student.Key
	}
	return out
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		ctx := context.Background()
		svc := service.New()

		Convey("When it has not been started", func() {
			_, err := svc.Find(ctx, 1)

			Convey("Then calls fail with ErrNotStarted", func() {
				So(err, ShouldEqual, service.ErrNotStarted)
				_, err = svc.SeedDemo(ctx)
				So(err, ShouldEqual, service.ErrNotStarted)
			})
		})

		Convey("When it is started twice and stopped", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)
			svc.Stop()

			Convey("Then the store is released", func() {
				_, err := svc.List(ctx)
				So(err, ShouldEqual, service.ErrNotStarted)
				So(svc.Stop, ShouldNotPanic)
			})
		})

		Convey("When the index strategy is unknown", func() {
			svc := service.New(service.WithIndexStrategy("btree"))
			err := svc.Start(ctx)

			Convey("Then Start fails", func() {
				So(errors.Is(err, repository.ErrUnknownStrategy), ShouldBeTrue)
			})
		})
	})
}

func TestService_Roster(t *testing.T) {
	for _, strategy := range []repository.IndexStrategy{repository.StrategyHash, repository.StrategySorted} {
		Convey("Given the demo roster on the "+string(strategy)+" index", t, func() {
			ctx := context.Background()
			svc := started(service.WithIndexStrategy(strategy))
			added, err := svc.SeedDemo(ctx)
			So(err, ShouldBeNil)
			So(added, ShouldEqual, 3)

			Convey("When the leaderboard is requested", func() {
				board, err := svc.Leaderboard(ctx)

				Convey("Then students are ranked by total", func() {
					So(err, ShouldBeNil)
					So(entryKeys(board), ShouldResemble, []int{103, 101, 102})
					So(board[0].Rank, ShouldEqual, 1)
					So(board[2].Rank, ShouldEqual, 3)
				})
			})

			Convey("When the top two are requested", func() {
				top, err := svc.TopK(ctx, 2)

				Convey("Then the leaderboard prefix is returned", func() {
					So(err, ShouldBeNil)
					So(entryKeys(top), ShouldResemble, []int{103, 101})
				})
			})

			Convey("When the roster is listed by key after sorting", func() {
				So(svc.SortPersist(ctx), ShouldBeNil)
				byKey, err := svc.ListByKey(ctx)

				Convey("Then keys ascend regardless of stored order", func() {
					So(err, ShouldBeNil)
					keys := make([]int, len(byKey))
					for i, s := range byKey {
						keys[i] = s.Key
					}
					So(keys, ShouldResemble, []int{101, 102, 103})
				})
			})

			Convey("When a student is looked up", func() {
				s, err := svc.Find(ctx, 102)

				Convey("Then the derived fields are present", func() {
					So(err, ShouldBeNil)
					So(s.Total, ShouldEqual, 358)
					So(s.Percentage, ShouldEqual, 89.5)
					So(s.Fees.Left.IsZero(), ShouldBeTrue)
				})
			})

			Convey("When the roster is seeded again", func() {
				added, err := svc.SeedDemo(ctx)

				Convey("Then nothing is added", func() {
					So(err, ShouldBeNil)
					So(added, ShouldEqual, 0)
					list, _ := svc.List(ctx)
					So(len(list), ShouldEqual, 3)
				})
			})

			Convey("When a duplicate key is added", func() {
				_, err := svc.Add(ctx, student(101, 1, 1, 1, 1))

				Convey("Then it is rejected", func() {
					So(errors.Is(err, repository.ErrDuplicateKey), ShouldBeTrue)
				})
			})

			Convey("When the collection is sorted and undone", func() {
				So(svc.SortPersist(ctx), ShouldBeNil)
				sorted, _ := svc.List(ctx)
				So(svc.Undo(ctx), ShouldBeNil)
				restored, _ := svc.List(ctx)

				Convey("Then the stored order round-trips", func() {
					So(sorted[0].Key, ShouldEqual, 103)
					So(restored[0].Key, ShouldEqual, 101)
					So(svc.Redo(ctx), ShouldBeNil)
					again, _ := svc.List(ctx)
					So(again[0].Key, ShouldEqual, 103)
				})
			})

			Convey("When a student is replaced and removed", func() {
				updated, err := svc.Replace(ctx, student(102, 100, 100, 100, 100))
				So(err, ShouldBeNil)
				So(updated.Total, ShouldEqual, 400)
				So(svc.Remove(ctx, 103), ShouldBeNil)

				Convey("Then the topper follows", func() {
					top, err := svc.Topper(ctx)
					So(err, ShouldBeNil)
					So(top.Key, ShouldEqual, 102)
					So(errors.Is(svc.Remove(ctx, 103), repository.ErrNotFound), ShouldBeTrue)
				})
			})
		})
	}
}

func TestService_TopKLimits(t *testing.T) {
	Convey("Given a service with a leaderboard cap", t, func() {
		ctx := context.Background()
		svc := started(service.WithMaxLeaderboardLimit(5))

		Convey("When k is negative", func() {
			_, err := svc.TopK(ctx, -1)

			Convey("Then it is rejected", func() {
				So(errors.Is(err, service.ErrInvalidLimit), ShouldBeTrue)
			})
		})

		Convey("When k exceeds the cap", func() {
			_, err := svc.TopK(ctx, 6)

			Convey("Then it is rejected", func() {
				So(errors.Is(err, service.ErrLimitExceeded), ShouldBeTrue)
			})
		})

		Convey("When the collection is empty", func() {
			top, err := svc.TopK(ctx, 3)

			Convey("Then the result is empty", func() {
				So(err, ShouldBeNil)
				So(top, ShouldBeEmpty)
				_, err = svc.Topper(ctx)
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestService_PayFee(t *testing.T) {
	Convey("Given a student owing fees", t, func() {
		ctx := context.Background()
		svc := started()
		in := student(7, 50, 50, 50, 50)
		in.FeesTotal = decimal.RequireFromString("1000.00")
		in.FeesPaid = decimal.RequireFromString("250.50")
		_, err := svc.Add(ctx, in)
		So(err, ShouldBeNil)

		Convey("When a payment is made", func() {
			s, err := svc.PayFee(ctx, 7, decimal.RequireFromString("100.25"))

			Convey("Then the balance drops by exactly that amount", func() {
				So(err, ShouldBeNil)
				So(s.Fees.Paid.String(), ShouldEqual, "350.75")
				So(s.Fees.Left.String(), ShouldEqual, "649.25")
			})

			Convey("And the payment can be undone", func() {
				So(svc.Undo(ctx), ShouldBeNil)
				back, _ := svc.Find(ctx, 7)
				So(back.Fees.Left.String(), ShouldEqual, "749.5")
			})
		})

		Convey("When the payment exceeds the balance", func() {
			s, err := svc.PayFee(ctx, 7, decimal.NewFromInt(5000))

			Convey("Then paid is clamped to the total", func() {
				So(err, ShouldBeNil)
				So(s.Fees.Paid.Equal(s.Fees.Total), ShouldBeTrue)
				So(s.Fees.Left.IsZero(), ShouldBeTrue)
			})
		})

		Convey("When the amount is not positive", func() {
			_, err := svc.PayFee(ctx, 7, decimal.Zero)

			Convey("Then it is rejected", func() {
				So(errors.Is(err, service.ErrInvalidPayment), ShouldBeTrue)
			})
		})

		Convey("When the student does not exist", func() {
			_, err := svc.PayFee(ctx, 8, decimal.NewFromInt(1))

			Convey("Then it is not found", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestService_Stats(t *testing.T) {
	Convey("Given the demo roster", t, func() {
		ctx := context.Background()
		svc := started(service.WithIndexStrategy(repository.StrategySorted))

		Convey("When stats are requested on an empty collection", func() {
			stats, err := svc.Stats(ctx)

			Convey("Then they are zeroed", func() {
				So(err, ShouldBeNil)
				So(stats.Records, ShouldEqual, 0)
				So(stats.OutstandingFees.IsZero(), ShouldBeTrue)
				So(stats.IndexStrategy, ShouldEqual, "sorted")
			})
		})

		Convey("When stats are requested after seeding", func() {
			_, err := svc.SeedDemo(ctx)
			So(err, ShouldBeNil)
			stats, err := svc.Stats(ctx)

			Convey("Then they summarise the roster", func() {
				So(err, ShouldBeNil)
				So(stats.Records, ShouldEqual, 3)
				So(stats.TopTotal, ShouldEqual, 372)
				So(stats.AveragePercentage, ShouldAlmostEqual, (91.25+89.5+93)/3, 1e-9)
				So(stats.OutstandingFees.String(), ShouldEqual, "80000")
				So(stats.UndoDepth, ShouldEqual, 3)
				So(stats.RedoDepth, ShouldEqual, 0)
			})
		})
	})
}
