package postgres

const placeColumns = `
  places_id::text,
  name,
  image,
  address,
  latitude,
  longitude,
  category,
  external_link,
  city,
  maps_id,
  description,
  arabic_name,
  tags,
  location,
  rating`

const insertPlaceSQL = `
INSERT INTO places
  (name, image, address, latitude, longitude, category, external_link,
   city, maps_id, description, arabic_name, tags, location, rating)
VALUES
  ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
RETURNING places_id::text`

const fetchAllSQL = `SELECT` + placeColumns + `
FROM places
ORDER BY created_at, places_id`

const getPlaceSQL = `SELECT` + placeColumns + `
FROM places
WHERE places_id = $1`

const searchPlacesSQL = `SELECT` + placeColumns + `
FROM places
WHERE ($1::text = '' OR name ILIKE '%' || $1::text || '%' ESCAPE '!')
  AND ($2::text = '' OR category = $2::text)
ORDER BY name, places_id
LIMIT $3`

const listInBoundsSQL = `SELECT` + placeColumns + `
FROM places
WHERE latitude BETWEEN $1 AND $2
  AND longitude BETWEEN $3 AND $4
  AND maps_id <> $5`

const categoryCountsSQL = `
SELECT category, COUNT(*) AS n
FROM places
GROUP BY category
ORDER BY n DESC, category`
