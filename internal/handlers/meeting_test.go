package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/meeting-scheduler-api/internal/constants"
	"github.com/yukikurage/meeting-scheduler-api/internal/database"
	"github.com/yukikurage/meeting-scheduler-api/internal/dto"
	apierrors "github.com/yukikurage/meeting-scheduler-api/internal/errors"
	"github.com/yukikurage/meeting-scheduler-api/internal/lock"
	"github.com/yukikurage/meeting-scheduler-api/internal/middleware"
	"github.com/yukikurage/meeting-scheduler-api/internal/models"
	"github.com/yukikurage/meeting-scheduler-api/internal/notify"
	"github.com/yukikurage/meeting-scheduler-api/internal/repository"
	"github.com/yukikurage/meeting-scheduler-api/internal/services"
	"github.com/yukikurage/meeting-scheduler-api/internal/tracker"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// MeetingHandlerTestSuite exercises the meeting and group routes end to end
type MeetingHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *MeetingHandler
	groups  *GroupHandler
	store   sessions.Store

	host    models.Employee
	asha    models.Employee
	bala    models.Employee
	product models.Product
}

func TestMeetingHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(MeetingHandlerTestSuite))
}

func (suite *MeetingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)

	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	suite.Require().NoError(suite.db.AutoMigrate(database.AllModels()...))
	database.SetDB(suite.db)

	meetingRepo := repository.NewMeetingRepository(suite.db)
	employeeRepo := repository.NewEmployeeRepository(suite.db)
	groupRepo := repository.NewGroupRepository(suite.db)

	meetingService := services.NewMeetingService(
		meetingRepo,
		employeeRepo,
		groupRepo,
		repository.NewProductRepository(suite.db),
		services.NewIssueService(repository.NewIssueLinkRepository(suite.db), meetingRepo, tracker.NewIssueTracker(suite.db)),
		tracker.NewTimeLogger(suite.db),
		notify.NewLogNotifier(),
		lock.NewLocalLocker(),
		services.MeetingServiceOptions{},
	)
	suite.handler = NewMeetingHandler(meetingService)
	suite.groups = NewGroupHandler(services.NewGroupService(groupRepo, employeeRepo))
	suite.store = cookie.NewStore([]byte("secret"))

	suite.host = suite.createEmployee("hana", "Hana", "Host")
	suite.asha = suite.createEmployee("asha", "Asha", "Rao")
	suite.bala = suite.createEmployee("bala", "Bala", "Iyer")

	suite.product = models.Product{Name: "Scheduler"}
	suite.Require().NoError(suite.db.Create(&suite.product).Error)
}

func (suite *MeetingHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *MeetingHandlerTestSuite) createEmployee(username, first, last string) models.Employee {
	e := models.Employee{
		Username:     username,
		Email:        username + "@example.com",
		FirstName:    first,
		LastName:     last,
		PasswordHash: "hashed",
	}
	suite.Require().NoError(suite.db.Create(&e).Error)
	return e
}

// router signs every request in as employeeID
func (suite *MeetingHandlerTestSuite) router(employeeID uint64) *gin.Engine {
	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, suite.store))
	r.Use(func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, employeeID)
		c.Next()
	})

	api := r.Group("/api")
	meetings := api.Group("/meetings")
	{
		meetings.GET("", suite.handler.ListMeetings)
		meetings.POST("", suite.handler.ScheduleMeeting)

		meeting := meetings.Group("/:id", middleware.RequireMeetingAccess())
		meeting.GET("", suite.handler.GetMeeting)
		meeting.PUT("", suite.handler.UpdateMeeting)
		meeting.POST("/cancel", suite.handler.CancelMeeting)
		meeting.POST("/time-logs", suite.handler.LogMeetingTime)
	}

	groups := api.Group("/groups")
	{
		groups.GET("", suite.groups.ListGroups)
		groups.POST("", suite.groups.CreateGroup)

		group := groups.Group("/:id", middleware.RequireGroupOwner())
		group.GET("", suite.groups.GetGroup)
		group.PUT("", suite.groups.UpdateGroup)
		group.DELETE("", suite.groups.DeleteGroup)
	}

	return r
}

func (suite *MeetingHandlerTestSuite) do(r http.Handler, method, target string, payload interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		suite.Require().NoError(err)
	}

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func (suite *MeetingHandlerTestSuite) apiError(w *httptest.ResponseRecorder) apierrors.APIError {
	var apiErr apierrors.APIError
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &apiErr))
	suite.False(apiErr.Success)
	return apiErr
}

func (suite *MeetingHandlerTestSuite) schedulePayload(start, end int, attendees ...string) map[string]interface{} {
	return map[string]interface{}{
		"type":       int(models.MeetingTypeGeneral),
		"title":      "Design review",
		"product_id": suite.product.ID,
		"start_date": "2024-07-01",
		"start_time": start,
		"end_time":   end,
		"attendees":  attendees,
	}
}

func (suite *MeetingHandlerTestSuite) scheduleOK(r http.Handler, payload map[string]interface{}) dto.ScheduleResponse {
	w := suite.do(r, http.MethodPost, "/api/meetings", payload)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var response dto.ScheduleResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.True(response.Success)
	return response
}

func (suite *MeetingHandlerTestSuite) TestScheduleMeeting_JSON() {
	r := suite.router(suite.host.ID)

	response := suite.scheduleOK(r, suite.schedulePayload(600, 660, "asha"))

	suite.Require().Len(response.Meetings, 1)
	suite.Equal("10:00:00", response.Meetings[0].StartTime)
	suite.Equal("General", response.Meetings[0].TypeName)
	suite.Equal(suite.host.ID, response.Meetings[0].CreatorID)
}

func (suite *MeetingHandlerTestSuite) TestScheduleMeeting_Form() {
	r := suite.router(suite.host.ID)

	form := url.Values{}
	form.Set("type", "1")
	form.Set("title", "Form meeting")
	form.Set("product_id", "1")
	form.Set("start_date", "2024-07-02")
	form.Set("start_time", "540")
	form.Set("end_time", "570")
	form.Add("attendees", "asha")
	form.Add("attendees", "bala@example.com")

	req := httptest.NewRequest(http.MethodPost, "/api/meetings", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var members int64
	suite.db.Model(&models.MeetingMember{}).Count(&members)
	suite.Equal(int64(3), members)
}

func (suite *MeetingHandlerTestSuite) TestScheduleMeeting_ValidationAndSelection() {
	r := suite.router(suite.host.ID)

	payload := suite.schedulePayload(660, 600, "asha")
	payload["title"] = ""
	w := suite.do(r, http.MethodPost, "/api/meetings", payload)
	suite.Require().Equal(http.StatusBadRequest, w.Code)

	apiErr := suite.apiError(w)
	suite.Equal(apierrors.ErrCodeValidationFailed, apiErr.Code)
	fields, ok := apiErr.Details.(map[string]interface{})
	suite.Require().True(ok)
	suite.Contains(fields, "title")
	suite.Contains(fields, "end_time")

	w = suite.do(r, http.MethodPost, "/api/meetings", suite.schedulePayload(600, 660))
	suite.Require().Equal(http.StatusBadRequest, w.Code)
	suite.Equal(apierrors.ErrCodeEmptySelection, suite.apiError(w).Code)

	payload = suite.schedulePayload(600, 660, "asha")
	payload["duration_hours"] = "one"
	w = suite.do(r, http.MethodPost, "/api/meetings", payload)
	suite.Equal(http.StatusUnprocessableEntity, w.Code)

	var count int64
	suite.db.Model(&models.Meeting{}).Count(&count)
	suite.Equal(int64(0), count)
}

func (suite *MeetingHandlerTestSuite) TestScheduleMeeting_ConflictAcknowledgedBySession() {
	// Asha is booked 10:30-11:30 by Bala
	suite.scheduleOK(suite.router(suite.bala.ID), suite.schedulePayload(630, 690, "asha"))

	r := suite.router(suite.host.ID)
	payload := suite.schedulePayload(600, 660, "asha")

	w := suite.do(r, http.MethodPost, "/api/meetings", payload)
	suite.Require().Equal(http.StatusConflict, w.Code)

	apiErr := suite.apiError(w)
	suite.Equal(apierrors.ErrCodeSchedulingConflict, apiErr.Code)
	details, ok := apiErr.Details.(map[string]interface{})
	suite.Require().True(ok)
	suite.Equal([]interface{}{"Asha Rao from 10:30 AM to 11:30 AM"}, details["conflicts"])

	cookies := w.Result().Cookies()
	suite.Require().NotEmpty(cookies)

	// The same session resubmits
	w = suite.do(r, http.MethodPost, "/api/meetings", payload, cookies...)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var response dto.ScheduleResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal([]string{"Asha Rao from 10:30 AM to 11:30 AM"}, response.Conflicts)

	// The acknowledgement was consumed by the successful write
	cookies = w.Result().Cookies()
	w = suite.do(r, http.MethodPost, "/api/meetings", suite.schedulePayload(615, 645, "asha"), cookies...)
	suite.Equal(http.StatusConflict, w.Code)

	var count int64
	suite.db.Model(&models.Meeting{}).Count(&count)
	suite.Equal(int64(2), count)
}

func (suite *MeetingHandlerTestSuite) TestScheduleMeeting_ConflictAcknowledgedByField() {
	suite.scheduleOK(suite.router(suite.bala.ID), suite.schedulePayload(630, 690, "asha"))

	payload := suite.schedulePayload(600, 660, "asha")
	payload["acknowledge_conflicts"] = true

	response := suite.scheduleOK(suite.router(suite.host.ID), payload)
	suite.Len(response.Conflicts, 1)
}

func (suite *MeetingHandlerTestSuite) TestGetMeeting_Access() {
	created := suite.scheduleOK(suite.router(suite.host.ID), suite.schedulePayload(600, 660, "asha"))
	target := "/api/meetings/" + jsonID(created.Meetings[0].ID)

	w := suite.do(suite.router(suite.asha.ID), http.MethodGet, target, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var meeting dto.MeetingDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &meeting))
	suite.Require().NotNil(meeting.Creator)
	suite.Equal("Hana Host", meeting.Creator.Name)
	suite.Len(meeting.Attendees, 2)

	w = suite.do(suite.router(suite.bala.ID), http.MethodGet, target, nil)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.do(suite.router(suite.asha.ID), http.MethodGet, "/api/meetings/abc", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *MeetingHandlerTestSuite) TestUpdateMeeting() {
	created := suite.scheduleOK(suite.router(suite.host.ID), suite.schedulePayload(600, 660, "asha"))
	target := "/api/meetings/" + jsonID(created.Meetings[0].ID)

	payload := map[string]interface{}{
		"title":      "Design review v2",
		"start_time": 780,
		"end_time":   840,
		"attendees":  []string{"bala"},
	}

	// Attendees cannot edit
	w := suite.do(suite.router(suite.asha.ID), http.MethodPut, target, payload)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do(suite.router(suite.host.ID), http.MethodPut, target, payload)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var response dto.UpdateResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.True(response.Success)
	suite.Equal([]uint64{suite.bala.ID}, response.Roster.Added)
	suite.Equal([]uint64{suite.host.ID}, response.Roster.Retained)
	suite.Equal([]uint64{suite.asha.ID}, response.Roster.Removed)
	suite.Equal("Design review v2", response.Meetings[0].Title)

	// Asha no longer attends
	w = suite.do(suite.router(suite.asha.ID), http.MethodGet, target, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *MeetingHandlerTestSuite) TestCancelMeeting() {
	created := suite.scheduleOK(suite.router(suite.host.ID), suite.schedulePayload(600, 660, "asha"))
	target := "/api/meetings/" + jsonID(created.Meetings[0].ID) + "/cancel"
	r := suite.router(suite.host.ID)

	w := suite.do(r, http.MethodPost, target, map[string]string{"reason": ""})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(r, http.MethodPost, target, map[string]string{"reason": "Room unavailable"})
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.do(r, http.MethodPost, target, map[string]string{"reason": "Moved to next week"})
	suite.Require().Equal(http.StatusOK, w.Code)

	var response struct {
		Success bool           `json:"success"`
		Meeting dto.MeetingDTO `json:"meeting"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.True(response.Success)
	suite.True(response.Meeting.Cancelled)
	suite.Require().NotNil(response.Meeting.CancelReason)
	suite.Equal("Moved to next week", *response.Meeting.CancelReason)

	// Cancelled meetings cannot be edited
	w = suite.do(r, http.MethodPut, "/api/meetings/"+jsonID(created.Meetings[0].ID), map[string]interface{}{
		"title": "Back on", "start_time": 600, "end_time": 660, "attendees": []string{"asha"},
	})
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *MeetingHandlerTestSuite) TestLogMeetingTimeAndList() {
	created := suite.scheduleOK(suite.router(suite.host.ID), suite.schedulePayload(600, 690, "asha"))
	r := suite.router(suite.host.ID)

	w := suite.do(r, http.MethodPost, "/api/meetings/"+jsonID(created.Meetings[0].ID)+"/time-logs", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var logged dto.TimeLogResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &logged))
	suite.NotZero(logged.IssueID)
	suite.Len(logged.Logged, 2)

	w = suite.do(r, http.MethodPost, "/api/meetings/"+jsonID(created.Meetings[0].ID)+"/time-logs", nil)
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.do(suite.router(suite.asha.ID), http.MethodGet, "/api/meetings?from=2024-07-01&to=2024-07-31", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var list dto.MeetingListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &list))
	suite.Equal(int64(1), list.Pagination.Total)
	suite.Len(list.Meetings, 1)

	w = suite.do(r, http.MethodGet, "/api/meetings?from=tomorrow", nil)
	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *MeetingHandlerTestSuite) TestLogMeetingTime_AttendeeOverrides() {
	created := suite.scheduleOK(suite.router(suite.host.ID), suite.schedulePayload(600, 690, "asha"))
	r := suite.router(suite.host.ID)
	target := "/api/meetings/" + jsonID(created.Meetings[0].ID) + "/time-logs"

	w := suite.do(r, http.MethodPost, target, map[string]interface{}{
		"attendees": []map[string]interface{}{{"id": suite.bala.ID, "hours": 1}},
	})
	suite.Equal(apierrors.ErrCodeValidationFailed, suite.apiError(w).Code)

	w = suite.do(r, http.MethodPost, target, map[string]interface{}{
		"attendees": []map[string]interface{}{{"id": suite.asha.ID, "hours": 0.5}},
		"comments":  "Review notes",
		"spent_on":  "2024-07-02",
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var logged dto.TimeLogResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &logged))
	suite.Equal([]uint64{suite.asha.ID}, logged.Logged)
}

func (suite *MeetingHandlerTestSuite) TestGroups() {
	r := suite.router(suite.host.ID)

	w := suite.do(r, http.MethodPost, "/api/groups", map[string]interface{}{
		"name":    "Core",
		"members": []string{"asha", "bala"},
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Success bool         `json:"success"`
		Group   dto.GroupDTO `json:"group"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))
	suite.Len(created.Group.Members, 2)
	target := "/api/groups/" + jsonID(created.Group.ID)

	// Groups are private to their owner
	w = suite.do(suite.router(suite.asha.ID), http.MethodGet, target, nil)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.do(r, http.MethodPut, target, map[string]interface{}{
		"name":    "Core team",
		"members": []string{"bala"},
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	// Selecting the group schedules its members
	payload := suite.schedulePayload(600, 660)
	payload["group_ids"] = []uint64{created.Group.ID}
	response := suite.scheduleOK(r, payload)

	var members int64
	suite.db.Model(&models.MeetingMember{}).Where("meeting_id = ?", response.Meetings[0].ID).Count(&members)
	suite.Equal(int64(2), members)

	w = suite.do(r, http.MethodDelete, target, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.do(r, http.MethodGet, target, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func jsonID(id uint64) string {
	return strconv.FormatUint(id, 10)
}
