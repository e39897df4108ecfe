package handler

import (
	"context"

	"github.com/iliyamo/health-tracker/internal/model"
	"github.com/iliyamo/health-tracker/internal/service"
	"github.com/iliyamo/health-tracker/internal/utils"
)

type fakeAuth struct {
	register func(name, email, password string) (uint64, error)
	login    func(email, password string) (utils.AccessToken, error)
}

func (f *fakeAuth) Register(_ context.Context, name, email, password string) (uint64, error) {
	return f.register(name, email, password)
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (utils.AccessToken, error) {
	return f.login(email, password)
}

type fakeRecords struct {
	create func(uid uint64, in service.RecordInput) (string, error)
	get    func(reportID string) (model.RecordView, error)
	update func(uid uint64, reportID string, in service.RecordInput) error
}

func (f *fakeRecords) CreateRecord(_ context.Context, uid uint64, in service.RecordInput) (string, error) {
	return f.create(uid, in)
}

func (f *fakeRecords) GetRecord(_ context.Context, reportID string) (model.RecordView, error) {
	return f.get(reportID)
}

func (f *fakeRecords) UpdateRecord(_ context.Context, uid uint64, reportID string, in service.RecordInput) error {
	return f.update(uid, reportID, in)
}

type fakeQuestionnaires struct {
	submit func(uid uint64, in []service.ResponseInput) (string, error)
	get    func(dlqID string) (service.Batch, error)
}

func (f *fakeQuestionnaires) Submit(_ context.Context, uid uint64, in []service.ResponseInput) (string, error) {
	return f.submit(uid, in)
}

func (f *fakeQuestionnaires) GetByBatchID(_ context.Context, dlqID string) (service.Batch, error) {
	return f.get(dlqID)
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }
