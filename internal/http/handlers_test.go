package http_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

type profileResp struct {
	Status  string   `json:"status"`
	Company string   `json:"company"`
	Website string   `json:"website"`
	Skills  []string `json:"skills"`
	Social  struct {
		Twitter string `json:"twitter"`
		Youtube string `json:"youtube"`
	} `json:"social"`
	Experience []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	} `json:"experience"`
	Education []struct {
		ID     string `json:"id"`
		School string `json:"school"`
	} `json:"education"`
}

func register(t *testing.T, env *testEnv, name, email string) string {
	t.Helper()
	w := env.do("POST", "/api/users",
		`{"name":"`+name+`","email":"`+email+`","password":"secret1"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("register code=%d body=%s", w.Code, w.Body.String())
	}
	var tr struct{ Token string }
	if err := json.Unmarshal(w.Body.Bytes(), &tr); err != nil || tr.Token == "" {
		t.Fatalf("register resp: %v; body=%s", err, w.Body.String())
	}
	return tr.Token
}

func Test_Register_Login_GetAuthUser(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	tok := register(t, env, "John", "john@example.com")

	w := env.do("POST", "/api/auth", `{"email":"john@example.com","password":"secret1"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login code=%d body=%s", w.Code, w.Body.String())
	}

	w = env.do("GET", "/api/auth", "", tok)
	if w.Code != http.StatusOK {
		t.Fatalf("me code=%d body=%s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Fatalf("password material leaked: %s", w.Body.String())
	}
	var u struct{ Name, Email, Avatar string }
	_ = json.Unmarshal(w.Body.Bytes(), &u)
	if u.Name != "John" || !strings.Contains(u.Avatar, "gravatar") {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func Test_Register_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	register(t, env, "John", "dup@example.com")

	w := env.do("POST", "/api/users",
		`{"name":"Johnny","email":"dup@example.com","password":"secret1"}`, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate code=%d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "user already registered") {
		t.Fatalf("wrong body: %s", w.Body.String())
	}
}

func Test_Register_ValidationListsEveryViolation(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	w := env.do("POST", "/api/users", `{"name":"","email":"nope","password":"123"}`, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code=%d", w.Code)
	}
	var resp struct {
		Errors []struct{ Msg, Param string } `json:"errors"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Errors) != 3 {
		t.Fatalf("want all 3 violations, got %+v", resp.Errors)
	}
}

func Test_Login_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	register(t, env, "John", "pw@example.com")

	w := env.do("POST", "/api/auth", `{"email":"pw@example.com","password":"wrong!"}`, "")
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "Invalid Credentials") {
		t.Fatalf("code=%d body=%s", w.Code, w.Body.String())
	}
}

func Test_Auth_MissingToken(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	w := env.do("GET", "/api/profile/me", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("code=%d", w.Code)
	}
}

func Test_Me_NoProfileYet(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	tok := register(t, env, "John", "np@example.com")
	w := env.do("GET", "/api/profile/me", "", tok)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "There is no profile of the user") {
		t.Fatalf("code=%d body=%s", w.Code, w.Body.String())
	}
}

func Test_Profile_UpsertPartialMerge(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	tok := register(t, env, "John", "merge@example.com")

	w := env.do("POST", "/api/profile",
		`{"status":"Dev","skills":"js, go , rust","website":"https://a.dev","twitter":"https://twitter.com/a"}`, tok)
	if w.Code != http.StatusOK {
		t.Fatalf("upsert1 code=%d body=%s", w.Code, w.Body.String())
	}

	// second upsert omits website and twitter; both must survive the merge
	w = env.do("POST", "/api/profile",
		`{"status":"Dev","skills":"js,go,rust","company":"Acme","youtube":"https://youtube.com/b"}`, tok)
	if w.Code != http.StatusOK {
		t.Fatalf("upsert2 code=%d body=%s", w.Code, w.Body.String())
	}

	var p profileResp
	_ = json.Unmarshal(w.Body.Bytes(), &p)
	if p.Website != "https://a.dev" || p.Company != "Acme" {
		t.Fatalf("partial merge lost a field: %+v", p)
	}
	if p.Social.Twitter != "https://twitter.com/a" || p.Social.Youtube != "https://youtube.com/b" {
		t.Fatalf("social merge wrong: %+v", p.Social)
	}
	if len(p.Skills) != 3 || p.Skills[0] != "js" || p.Skills[1] != "go" || p.Skills[2] != "rust" {
		t.Fatalf("skills not normalized: %v", p.Skills)
	}
}

func Test_Profile_UpsertRequiresStatusAndSkills(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	tok := register(t, env, "John", "req@example.com")
	w := env.do("POST", "/api/profile", `{"company":"Acme"}`, tok)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code=%d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Errors []struct{ Param string } `json:"errors"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Errors) != 2 {
		t.Fatalf("want status+skills violations, got %+v", resp.Errors)
	}
}

func Test_Experience_PrependAndRemove(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	tok := register(t, env, "John", "exp@example.com")
	env.do("POST", "/api/profile", `{"status":"Dev","skills":"go"}`, tok)

	w := env.do("PUT", "/api/profile/experience",
		`{"title":"A","company":"Acme","from":"2019-01-01","to":"2020-01-01"}`, tok)
	if w.Code != http.StatusOK {
		t.Fatalf("add A code=%d body=%s", w.Code, w.Body.String())
	}
	w = env.do("PUT", "/api/profile/experience",
		`{"title":"B","company":"Globex","from":"2020-01-01","current":true}`, tok)
	if w.Code != http.StatusOK {
		t.Fatalf("add B code=%d body=%s", w.Code, w.Body.String())
	}

	var p profileResp
	_ = json.Unmarshal(w.Body.Bytes(), &p)
	if len(p.Experience) != 2 || p.Experience[0].Title != "B" || p.Experience[1].Title != "A" {
		t.Fatalf("want [B A], got %+v", p.Experience)
	}
	idB := p.Experience[0].ID

	// unknown id: silent no-op, unchanged profile comes back
	w = env.do("DELETE", "/api/profile/experience/unknown-id", "", tok)
	if w.Code != http.StatusOK {
		t.Fatalf("noop remove code=%d", w.Code)
	}
	_ = json.Unmarshal(w.Body.Bytes(), &p)
	if len(p.Experience) != 2 {
		t.Fatalf("no-op removal mutated: %+v", p.Experience)
	}

	w = env.do("DELETE", "/api/profile/experience/"+idB, "", tok)
	if w.Code != http.StatusOK {
		t.Fatalf("remove code=%d body=%s", w.Code, w.Body.String())
	}
	_ = json.Unmarshal(w.Body.Bytes(), &p)
	if len(p.Experience) != 1 || p.Experience[0].Title != "A" {
		t.Fatalf("want [A], got %+v", p.Experience)
	}
}

func Test_Experience_ValidationListsEveryField(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	tok := register(t, env, "John", "val@example.com")
	env.do("POST", "/api/profile", `{"status":"Dev","skills":"go"}`, tok)

	w := env.do("PUT", "/api/profile/experience", `{}`, tok)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code=%d", w.Code)
	}
	var resp struct {
		Errors []struct{ Param string } `json:"errors"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Errors) != 4 {
		t.Fatalf("want title/company/from/to violations, got %+v", resp.Errors)
	}
}

func Test_Experience_RequiresExistingProfile(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	tok := register(t, env, "John", "noprof@example.com")
	w := env.do("PUT", "/api/profile/experience",
		`{"title":"A","company":"Acme","from":"2019-01-01","to":"2020-01-01"}`, tok)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "There is no profile of the user") {
		t.Fatalf("code=%d body=%s", w.Code, w.Body.String())
	}
}

func Test_Education_AddAndRemove(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	tok := register(t, env, "John", "edu@example.com")
	env.do("POST", "/api/profile", `{"status":"Dev","skills":"go"}`, tok)

	w := env.do("PUT", "/api/profile/education",
		`{"school":"MIT","degree":"BSc","fieldofstudy":"CS","from":"2010-09-01","to":"2014-06-01"}`, tok)
	if w.Code != http.StatusOK {
		t.Fatalf("add code=%d body=%s", w.Code, w.Body.String())
	}
	var p profileResp
	_ = json.Unmarshal(w.Body.Bytes(), &p)
	if len(p.Education) != 1 || p.Education[0].School != "MIT" {
		t.Fatalf("unexpected education: %+v", p.Education)
	}

	w = env.do("DELETE", "/api/profile/education/"+p.Education[0].ID, "", tok)
	if w.Code != http.StatusOK {
		t.Fatalf("remove code=%d", w.Code)
	}
	_ = json.Unmarshal(w.Body.Bytes(), &p)
	if len(p.Education) != 0 {
		t.Fatalf("education not removed: %+v", p.Education)
	}
}

func Test_ListProfiles_JoinsOwner(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	tok := register(t, env, "John", "list@example.com")
	env.do("POST", "/api/profile", `{"status":"Dev","skills":"go"}`, tok)

	w := env.do("GET", "/api/profile", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("code=%d body=%s", w.Code, w.Body.String())
	}
	var out []struct {
		User struct{ Name, Email string } `json:"user"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if len(out) != 1 || out[0].User.Name != "John" || out[0].User.Email != "list@example.com" {
		t.Fatalf("owner not joined: %s", w.Body.String())
	}
}

func Test_GetProfileByUser_InvalidID(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	w := env.do("GET", "/api/profile/user/not-an-objectid", "", "")
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "Profile not found") {
		t.Fatalf("code=%d body=%s", w.Code, w.Body.String())
	}
}

func Test_DeleteAccount_Cascades(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	tok := register(t, env, "John", "del@example.com")
	env.do("POST", "/api/profile", `{"status":"Dev","skills":"go"}`, tok)

	w := env.do("DELETE", "/api/profile", "", tok)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "User deleted") {
		t.Fatalf("code=%d body=%s", w.Code, w.Body.String())
	}

	w = env.do("POST", "/api/auth", `{"email":"del@example.com","password":"secret1"}`, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("deleted user can still log in: %d %s", w.Code, w.Body.String())
	}

	// email becomes free to register again
	register(t, env, "John II", "del@example.com")
}

func Test_GithubRepos(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	w := env.do("GET", "/api/profile/github/octocat", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("code=%d body=%s", w.Code, w.Body.String())
	}
	var repos []struct{ Name string }
	_ = json.Unmarshal(w.Body.Bytes(), &repos)
	if len(repos) != 1 || repos[0].Name != "hello" {
		t.Fatalf("unexpected repos: %s", w.Body.String())
	}

	w = env.do("GET", "/api/profile/github/nobody", "", "")
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "No github profile found") {
		t.Fatalf("code=%d body=%s", w.Code, w.Body.String())
	}
}
