package instagram

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreateCarouselChild(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/media" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if r.PostForm.Get("media_type") != "VIDEO" {
			t.Errorf("media_type = %q", r.PostForm.Get("media_type"))
		}
		if r.PostForm.Get("is_carousel_item") != "true" {
			t.Errorf("is_carousel_item = %q", r.PostForm.Get("is_carousel_item"))
		}
		if r.PostForm.Get("video_url") != "https://signed/video.mp4" {
			t.Errorf("video_url = %q", r.PostForm.Get("video_url"))
		}
		if r.PostForm.Get("access_token") != "tok" {
			t.Errorf("access_token = %q", r.PostForm.Get("access_token"))
		}
		fmt.Fprint(w, `{"id": "child-1"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "user", "tok")
	id, err := c.CreateCarouselChild(context.Background(), "https://signed/video.mp4")
	if err != nil {
		t.Fatal(err)
	}
	if id != "child-1" {
		t.Errorf("id = %q", id)
	}
}

func TestCreateCarouselParent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if r.PostForm.Get("media_type") != "CAROUSEL" {
			t.Errorf("media_type = %q", r.PostForm.Get("media_type"))
		}
		if r.PostForm.Get("children") != "a,b,c" {
			t.Errorf("children = %q", r.PostForm.Get("children"))
		}
		if r.PostForm.Get("caption") != "hola" {
			t.Errorf("caption = %q", r.PostForm.Get("caption"))
		}
		fmt.Fprint(w, `{"id": "parent-1"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "user", "tok")
	id, err := c.CreateCarouselParent(context.Background(), []string{"a", "b", "c"}, "hola")
	if err != nil {
		t.Fatal(err)
	}
	if id != "parent-1" {
		t.Errorf("id = %q", id)
	}
}

func TestCreateCarouselParentNoChildren(t *testing.T) {
	c := NewClient("http://unused", "user", "tok")
	if _, err := c.CreateCarouselParent(context.Background(), nil, "x"); err == nil {
		t.Fatal("expected error with empty children")
	}
}

func TestPublish(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/media_publish" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if r.PostForm.Get("creation_id") != "parent-1" {
			t.Errorf("creation_id = %q", r.PostForm.Get("creation_id"))
		}
		fmt.Fprint(w, `{"id": "post-9"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "user", "tok")
	postID, err := c.Publish(context.Background(), "parent-1")
	if err != nil {
		t.Fatal(err)
	}
	if postID != "post-9" {
		t.Errorf("postID = %q", postID)
	}
}

func TestPostFormAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "bad token"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "user", "tok")
	if _, err := c.CreateCarouselChild(context.Background(), "https://x"); err == nil {
		t.Fatal("expected error on non-200")
	}
}
