package repository_test

import (
	"context"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	dbTest "github.com/UMCU-Digital-Health/No-Show/store/test"
	"github.com/UMCU-Digital-Health/No-Show/test"
	"github.com/UMCU-Digital-Health/No-Show/treatment"
	"github.com/UMCU-Digital-Health/No-Show/treatment/repository"
)

var _ = Describe("Treatment Repository", func() {
	var repo treatment.Repository
	var database *mongo.Database
	var collection *mongo.Collection

	BeforeEach(func() {
		database = dbTest.GetTestDatabase()
		collection = database.Collection(treatment.CollectionName)

		lifecycle := fxtest.NewLifecycle(GinkgoT())
		var err error
		repo, err = repository.NewRepository(database, zap.NewNop().Sugar(), lifecycle)
		Expect(err).ToNot(HaveOccurred())
		lifecycle.RequireStart()
		DeferCleanup(lifecycle.RequireStop)
	})

	AfterEach(func() {
		_, err := collection.DeleteMany(context.Background(), bson.M{})
		Expect(err).ToNot(HaveOccurred())
	})

	randomAssignments := func(count int) []treatment.Assignment {
		result := make([]treatment.Assignment, count)
		for i := range result {
			result[i] = treatment.Assignment{
				PatientId:      fmt.Sprintf("%s-%03d", test.Faker.UUID().V4(), i),
				TreatmentGroup: treatment.Group(test.Rand.Intn(3)),
			}
		}
		return result
	}

	Describe("Initialize", func() {
		It("creates the treatment group index", func() {
			cursor, err := collection.Indexes().List(context.Background())
			Expect(err).ToNot(HaveOccurred())

			var indexes []bson.M
			Expect(cursor.All(context.Background(), &indexes)).To(Succeed())

			names := make([]string, 0, len(indexes))
			for _, index := range indexes {
				names = append(names, index["name"].(string))
			}
			Expect(names).To(ContainElement("TreatmentGroup"))
		})
	})

	Describe("Upsert", func() {
		It("inserts new assignments", func() {
			assignments := randomAssignments(5)
			Expect(repo.Upsert(context.Background(), assignments)).To(Succeed())

			count, err := collection.CountDocuments(context.Background(), bson.M{})
			Expect(err).ToNot(HaveOccurred())
			Expect(count).To(Equal(int64(5)))
		})

		It("updates the group and keeps the created time", func() {
			assignment := randomAssignments(1)[0]
			assignment.TreatmentGroup = treatment.GroupTreatment
			Expect(repo.Upsert(context.Background(), []treatment.Assignment{assignment})).To(Succeed())

			before, err := repo.Get(context.Background(), []string{assignment.PatientId})
			Expect(err).ToNot(HaveOccurred())
			Expect(before).To(HaveLen(1))

			assignment.TreatmentGroup = treatment.GroupExcluded
			Expect(repo.Upsert(context.Background(), []treatment.Assignment{assignment})).To(Succeed())

			after, err := repo.Get(context.Background(), []string{assignment.PatientId})
			Expect(err).ToNot(HaveOccurred())
			Expect(after).To(HaveLen(1))
			Expect(after[0].TreatmentGroup).To(Equal(treatment.GroupExcluded))
			Expect(after[0].CreatedTime).To(Equal(before[0].CreatedTime))
			Expect(after[0].UpdatedTime).ToNot(BeNil())
		})

		It("accepts an empty batch", func() {
			Expect(repo.Upsert(context.Background(), nil)).To(Succeed())
		})
	})

	Describe("Get", func() {
		It("returns only the requested patients", func() {
			assignments := randomAssignments(4)
			Expect(repo.Upsert(context.Background(), assignments)).To(Succeed())

			result, err := repo.Get(context.Background(), []string{assignments[1].PatientId, assignments[3].PatientId, "unknown"})
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(HaveLen(2))

			ids := []string{result[0].PatientId, result[1].PatientId}
			Expect(ids).To(ConsistOf(assignments[1].PatientId, assignments[3].PatientId))
		})

		It("returns nothing for an empty id list", func() {
			Expect(repo.Upsert(context.Background(), randomAssignments(2))).To(Succeed())

			result, err := repo.Get(context.Background(), nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(BeEmpty())
		})
	})

	Describe("List", func() {
		It("filters by treatment group", func() {
			assignments := randomAssignments(10)
			for i := range assignments {
				assignments[i].TreatmentGroup = treatment.Group(i % 3)
			}
			Expect(repo.Upsert(context.Background(), assignments)).To(Succeed())

			group := treatment.GroupControl
			result, err := repo.List(context.Background(), &treatment.Filter{Group: &group})
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(HaveLen(4))
			for _, assignment := range result {
				Expect(assignment.TreatmentGroup).To(Equal(treatment.GroupControl))
			}
		})

		It("returns every assignment sorted by patient id without a filter", func() {
			Expect(repo.Upsert(context.Background(), randomAssignments(3))).To(Succeed())

			result, err := repo.List(context.Background(), nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(HaveLen(3))
			Expect(result[0].PatientId < result[1].PatientId).To(BeTrue())
			Expect(result[1].PatientId < result[2].PatientId).To(BeTrue())
		})
	})
})
